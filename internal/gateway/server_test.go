package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// bridgeStub answers "METHOD path" with canned bodies and records what it saw.
type bridgeStub struct {
	mu     sync.Mutex
	routes map[string]string
	seen   []string
	bodies []string
}

func (b *bridgeStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.seen = append(b.seen, key)
	b.bodies = append(b.bodies, string(body))
	resp, ok := b.routes[key]
	b.mu.Unlock()

	if !ok {
		_, _ = io.WriteString(w, `[{"error":{"type":3,"address":"`+r.URL.Path+`","description":"resource not available"}}]`)
		return
	}
	_, _ = io.WriteString(w, resp)
}

func (b *bridgeStub) Seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.seen...)
}

func (b *bridgeStub) LastBody() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.bodies) == 0 {
		return ""
	}
	return b.bodies[len(b.bodies)-1]
}

// testGateway wires a gateway to a stub bridge through the real HTTP transport.
func testGateway(t *testing.T, username string, routes map[string]string) (http.Handler, *bridgeStub) {
	t.Helper()

	stub := &bridgeStub{routes: routes}
	bridge := httptest.NewServer(stub)
	t.Cleanup(bridge.Close)

	tr, err := hue.NewHTTPTransport(hue.TransportConfig{Address: bridge.URL})
	if err != nil {
		t.Fatalf("NewHTTPTransport: %v", err)
	}

	srv := NewServer("127.0.0.1:0", tr, username, "huemanatee#test")
	return srv.Handler(), stub
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h, stub := testGateway(t, "user", nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if len(stub.Seen()) != 0 {
		t.Error("health must not call the bridge")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := testGateway(t, "user", nil)

	rec := do(t, h, http.MethodGet, "/health", "", "X-Request-ID", "abc-123")
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestListLights(t *testing.T) {
	h, _ := testGateway(t, "user", map[string]string{
		"GET /api/user/lights": `{"1":{"name":"Desk","state":{"on":true,"bri":10}},"2":{"name":"Hall"}}`,
	})

	rec := do(t, h, http.MethodGet, "/lights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got := decode[struct {
		Lights []hue.Light `json:"lights"`
		Count  int         `json:"count"`
	}](t, rec)

	if got.Count != 2 || got.Lights[0].Name != "Desk" || got.Lights[1].ID != "2" {
		t.Errorf("response = %+v", got)
	}
	if got.Lights[0].State == nil || *got.Lights[0].State.Brightness != 10 {
		t.Errorf("light 1 state = %+v", got.Lights[0].State)
	}
}

func TestGetLight_NotFound(t *testing.T) {
	h, _ := testGateway(t, "user", map[string]string{})

	rec := do(t, h, http.MethodGet, "/lights/42", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if e := decode[Error](t, rec); e.Code != ErrCodeNotFound {
		t.Errorf("code = %q", e.Code)
	}
}

func TestChangeLight_WithColor(t *testing.T) {
	h, stub := testGateway(t, "user", map[string]string{
		"PUT /api/user/lights/3/state": `[{"success":{"/lights/3/state/on":true}},{"success":{"/lights/3/state/hue":31674}}]`,
	})

	rec := do(t, h, http.MethodPut, "/lights/3", `{"on":true,"color":"#40e0d0","brightness":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[hue.ChangeResponse](t, rec)
	if len(resp.Changes) != 2 || resp.Changes[1].Value != "31674" {
		t.Errorf("response = %+v", resp)
	}

	var sent map[string]any
	if err := json.Unmarshal([]byte(stub.LastBody()), &sent); err != nil {
		t.Fatalf("bridge body: %v", err)
	}
	if sent["bri"] != float64(50) || sent["hue"] != float64(31674) || sent["sat"] != float64(182) {
		t.Errorf("bridge body = %s", stub.LastBody())
	}
}

func TestChangeLight_BadBody(t *testing.T) {
	h, stub := testGateway(t, "user", nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"unknown field", `{"bogus":1}`},
		{"bad colour", `{"color":"#zzzzzz"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, "/lights/1", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	if len(stub.Seen()) != 0 {
		t.Errorf("bridge saw %v", stub.Seen())
	}
}

func TestRainbow(t *testing.T) {
	h, stub := testGateway(t, "user", map[string]string{
		"PUT /api/user/lights/4/state": `[{"success":{"/lights/4/state/effect":"colorloop"}}]`,
	})

	rec := do(t, h, http.MethodPut, "/lights/4/rainbow", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d", rec.Code)
	}
	if body := stub.LastBody(); body != `{"on":true,"effect":"colorloop"}` {
		t.Errorf("start body = %s", body)
	}

	rec = do(t, h, http.MethodDelete, "/lights/4/rainbow", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d", rec.Code)
	}
	if body := stub.LastBody(); body != `{"effect":"none"}` {
		t.Errorf("stop body = %s", body)
	}
}

func TestGroups(t *testing.T) {
	h, stub := testGateway(t, "user", map[string]string{
		"GET /api/user/groups/":         `{"1":{"name":"Living","lights":["1"],"type":"Room"}}`,
		"GET /api/user/groups/1":        `{"name":"Living","lights":["1"],"type":"Room"}`,
		"PUT /api/user/groups/1/action": `[{"success":{"/groups/1/action/on":false}}]`,
	})

	rec := do(t, h, http.MethodGet, "/groups", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[struct {
		Groups []hue.Group `json:"groups"`
		Count  int         `json:"count"`
	}](t, rec)
	if list.Count != 1 || list.Groups[0].Name != "Living" {
		t.Errorf("list = %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/groups/1", "")
	if g := decode[hue.Group](t, rec); g.ID != "1" || g.Type != "Room" {
		t.Errorf("group = %+v", g)
	}

	rec = do(t, h, http.MethodPut, "/groups/1", `{"on":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("change status = %d", rec.Code)
	}
	if body := stub.LastBody(); body != `{"on":false}` {
		t.Errorf("bridge body = %s", body)
	}
}

func TestUnauthorized(t *testing.T) {
	h, stub := testGateway(t, "", nil)

	rec := do(t, h, http.MethodGet, "/lights", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if len(stub.Seen()) != 0 {
		t.Error("bridge must not be called without a username")
	}
}

func TestUsernameHeaderOverride(t *testing.T) {
	h, stub := testGateway(t, "", map[string]string{
		"GET /api/other/lights": `{}`,
	})

	rec := do(t, h, http.MethodGet, "/lights", "", UsernameHeader, "other")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if seen := stub.Seen(); len(seen) != 1 || seen[0] != "GET /api/other/lights" {
		t.Errorf("bridge saw %v", seen)
	}
}

func TestBridgeRejectsUsername(t *testing.T) {
	h, _ := testGateway(t, "stale", map[string]string{
		"GET /api/stale/lights": `[{"error":{"type":1,"address":"/","description":"unauthorized user"}}]`,
	})

	rec := do(t, h, http.MethodGet, "/lights", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestBridgeGarbage(t *testing.T) {
	h, _ := testGateway(t, "user", map[string]string{
		"GET /api/user/lights": `not json`,
	})

	rec := do(t, h, http.MethodGet, "/lights", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		reply      string
		wantStatus int
		wantSent   string
	}{
		{
			name:       "default device type",
			reply:      `[{"success":{"username":"new-user"}}]`,
			wantStatus: http.StatusCreated,
			wantSent:   `{"devicetype":"huemanatee#test"}`,
		},
		{
			name:       "explicit device type",
			body:       `{"deviceType":"app#kitchen"}`,
			reply:      `[{"error":{"type":101,"address":"","description":"link button not pressed"}}]`,
			wantStatus: http.StatusOK,
			wantSent:   `{"devicetype":"app#kitchen"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, stub := testGateway(t, "", map[string]string{"POST /api": tt.reply})

			rec := do(t, h, http.MethodPost, "/register", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if sent := stub.LastBody(); sent != tt.wantSent {
				t.Errorf("bridge body = %s, want %s", sent, tt.wantSent)
			}
		})
	}
}

func TestRegister_BlankDeviceType(t *testing.T) {
	h, stub := testGateway(t, "", nil)

	rec := do(t, h, http.MethodPost, "/register", `{"deviceType":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(stub.Seen()) != 0 {
		t.Error("bridge must not be called")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := testGateway(t, "user", nil)

	rec := do(t, h, http.MethodPost, "/lights/1", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := requestIDMiddleware(recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
