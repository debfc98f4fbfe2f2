package hue

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Transport performs one round trip against the bridge and decodes the reply
// into out. Paths are relative to the bridge base address, e.g. "api/x/lights".
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// TransportConfig configures an HTTPTransport.
type TransportConfig struct {
	// Address is the bridge host ("192.168.1.10") or base URL ("https://192.168.1.10").
	Address string

	// Timeout for a single round trip (0 = 30s).
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate checks (the bridge uses a self-signed cert).
	InsecureSkipVerify bool

	// RateLimitRPS throttles outgoing requests (0 = unlimited). Requests
	// wait for a slot; they are never retried.
	RateLimitRPS float64

	// HTTPClient overrides the client built from the options above.
	HTTPClient *http.Client
}

// HTTPTransport is a Transport over net/http. It is safe for concurrent use.
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPTransport creates a new bridge transport.
func NewHTTPTransport(cfg TransportConfig) (*HTTPTransport, error) {
	base, err := normalizeAddress(cfg.Address)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // bridge certificate is self-signed
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := int(cfg.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &HTTPTransport{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    limiter,
	}, nil
}

// Get issues a GET request.
func (t *HTTPTransport) Get(ctx context.Context, path string, out any) error {
	return t.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (t *HTTPTransport) Post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (t *HTTPTransport) Put(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPut, path, body, out)
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

// BaseURL returns the bridge base address.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request body: %v", ErrInvalidRequest, err)
		}
		reader = bytes.NewReader(data)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, t.url(path), reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	log.Debug().
		Str("method", method).
		Str("path", redactPath(path)).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Bridge request")

	return decodeResponse(resp.StatusCode, raw, out)
}

func (t *HTTPTransport) url(path string) string {
	return t.baseURL + "/" + strings.TrimLeft(path, "/")
}

// decodeResponse decodes raw into out. When that fails the body is tried
// as the bridge's error array before giving up.
func decodeResponse(status int, raw []byte, out any) error {
	var parseErr error
	if status >= 200 && status < 300 {
		if parseErr = json.Unmarshal(raw, out); parseErr == nil {
			return nil
		}
	} else {
		parseErr = fmt.Errorf("unexpected status code: %d", status)
	}

	if errs, ok := bridgeErrors(raw); ok {
		return &BridgeProtocolError{Errors: errs}
	}
	return &ResponseParseError{Status: status, Body: string(raw), Err: parseErr}
}

func bridgeErrors(raw []byte) ([]BridgeError, bool) {
	var results []Result[json.RawMessage]
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	var errs []BridgeError
	for _, r := range results {
		if be, ok := r.Failure(); ok {
			errs = append(errs, be)
		}
	}
	return errs, len(errs) > 0
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", invalidRequest("bridge address is required")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	u, err := url.Parse(address)
	if err != nil || u.Host == "" {
		return "", invalidRequest(fmt.Sprintf("bridge address %q is not a valid URL", address))
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// redactPath hides the username segment of "api/<username>/...".
func redactPath(path string) string {
	parts := strings.SplitN(strings.TrimLeft(path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] != "api" || parts[1] == "" {
		return path
	}
	parts[1] = "***"
	return strings.Join(parts, "/")
}
