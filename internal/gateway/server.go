package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// UsernameHeader lets a caller act as a different bridge user than the
// configured one.
const UsernameHeader = "X-Hue-Username"

// Server exposes the bridge client over HTTP.
type Server struct {
	addr       string
	transport  hue.Transport
	username   string
	deviceType string
	httpServer *http.Server
}

// NewServer creates a new gateway server. username may be empty, in which
// case callers must send UsernameHeader. deviceType is used by /register
// when the request body does not name one.
func NewServer(addr string, transport hue.Transport, username, deviceType string) *Server {
	return &Server{
		addr:       addr,
		transport:  transport,
		username:   strings.TrimSpace(username),
		deviceType: deviceType,
	}
}

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/lights", func(r chi.Router) {
		r.Get("/", s.handleListLights)
		r.Get("/{id}", s.handleGetLight)
		r.Put("/{id}", s.handleChangeLight)
		r.Put("/{id}/rainbow", s.handleStartRainbow)
		r.Delete("/{id}/rainbow", s.handleStopRainbow)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.handleListGroups)
		r.Get("/{id}", s.handleGetGroup)
		r.Put("/{id}", s.handleChangeGroup)
	})

	r.Post("/register", s.handleRegister)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	return r
}

// Run starts the gateway server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", s.addr).Msg("Starting gateway server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Gateway server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// clientFor builds a client for the caller, honouring UsernameHeader.
func (s *Server) clientFor(r *http.Request) *hue.Client {
	username := s.username
	if h := strings.TrimSpace(r.Header.Get(UsernameHeader)); h != "" {
		username = h
	}
	return hue.NewClient(s.transport, username)
}

// handleHealth reports liveness. It does not contact the bridge.
//
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
