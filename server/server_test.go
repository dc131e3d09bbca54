package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/bootstrap"
	"github.com/kbukum/nucleus/builtin"
	"github.com/kbukum/nucleus/component"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/nucleus"
	"github.com/kbukum/nucleus/nucleustest"
	"github.com/kbukum/nucleus/server/endpoint"
	"github.com/kbukum/nucleus/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *nucleus.Nucleus) {
	t.Helper()
	h := nucleustest.Start(t, []string{"DAS", "DafEar.base"}, nucleustest.MyComponentPath,
		nucleus.WithLayer(nucleustest.Fixtures()))

	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.ApplyDefaults("nucleusd", h.Nucleus())
	return s, h.Nucleus()
}

func get(s *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rr.Body.String(), err)
	}
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("expected session cookie")
	return nil
}

func TestComponentBrowser(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		path  string
		typ   string
		scope string
	}{
		{nucleustest.GlobalComponentPath, "*nucleustest.GlobalComponent", "global"},
		{nucleustest.SessionComponentPath, "*nucleustest.SessionComponent", "session"},
		{nucleustest.WindowComponentPath, "*nucleustest.WindowComponent", "window"},
		{nucleustest.RequestComponentPath, "*nucleustest.RequestComponent", "request"},
		{builtin.ConfigurationPath, "*builtin.Configuration", "global"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(s, "/nucleus"+tt.path)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
			}
			var view endpoint.ComponentView
			decode(t, rr, &view)
			if view.Path != tt.path || view.AbsoluteName != tt.path {
				t.Errorf("unexpected names %+v", view)
			}
			if view.Type != tt.typ || view.Scope != tt.scope {
				t.Errorf("expected %s/%s, got %s/%s", tt.typ, tt.scope, view.Type, view.Scope)
			}
		})
	}
}

func TestComponentBrowserErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/nucleus/NoSuchComponent", http.StatusNotFound, "NOT_FOUND"},
		{"/nucleus/bad%20name", http.StatusBadRequest, "INVALID_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := get(s, tt.path)
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			decode(t, rr, &body)
			if body.Error.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}

func TestSessionCookieAndWindow(t *testing.T) {
	s, n := newTestServer(t)

	first := get(s, "/nucleus"+builtin.SessionInfoPath)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
	}
	cookie := sessionCookie(t, first)
	window := first.Header().Get(middleware.WindowHeader)
	if window == "" {
		t.Fatal("expected window header")
	}

	second := get(s, "/nucleus"+nucleustest.WindowComponentPath+"?_windowid="+window, cookie)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	if got := second.Header().Get(middleware.WindowHeader); got != window {
		t.Errorf("expected window %s reused, got %s", window, got)
	}
	if sessionCookie(t, second).Value != cookie.Value {
		t.Error("expected the same session")
	}
	if n.Sessions().Len() != 1 {
		t.Errorf("expected 1 session, got %d", n.Sessions().Len())
	}
	session, ok := n.Sessions().Session(cookie.Value)
	if !ok || session.Windows() != 1 {
		t.Errorf("expected one window in session %s", cookie.Value)
	}

	get(s, "/nucleus"+builtin.SessionInfoPath)
	if n.Sessions().Len() != 2 {
		t.Errorf("expected a cookieless request to open a second session, got %d", n.Sessions().Len())
	}
	if active := n.Sessions().ActiveRequests(); active != 0 {
		t.Errorf("expected every request ended, %d still active", active)
	}
}

func TestRegistrations(t *testing.T) {
	s, n := newTestServer(t)

	rr := get(s, "/nucleus-registrations")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Count         int `json:"count"`
		Registrations []struct {
			Path  string `json:"path"`
			Scope string `json:"scope"`
			Eager bool   `json:"eager"`
		} `json:"registrations"`
	}
	decode(t, rr, &body)
	if body.Count != len(n.Container().Registrations()) || body.Count != len(body.Registrations) {
		t.Errorf("unexpected count %d", body.Count)
	}
	found := false
	for _, r := range body.Registrations {
		if r.Path == nucleustest.MyComponentPath {
			found = r.Eager && r.Scope == "global"
		}
	}
	if !found {
		t.Errorf("expected eager global %s in %s", nucleustest.MyComponentPath, rr.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, n := newTestServer(t)

	for _, path := range []string{"/health", "/livez", "/readyz"} {
		if rr := get(s, path); rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
	}

	if err := n.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	rr := get(s, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after shutdown, got %d", rr.Code)
	}
	var body struct {
		Status     string             `json:"status"`
		Components []component.Health `json:"components"`
	}
	decode(t, rr, &body)
	if body.Status != "unhealthy" || len(body.Components) != 1 {
		t.Errorf("unexpected health body %s", rr.Body.String())
	}
	if rr := get(s, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected readyz 503 after shutdown, got %d", rr.Code)
	}
	if rr := get(s, "/livez"); rr.Code != http.StatusOK {
		t.Errorf("expected livez 200 after shutdown, got %d", rr.Code)
	}
}

func TestInfo(t *testing.T) {
	s, _ := newTestServer(t)

	rr := get(s, "/info")
	var body struct {
		Service        string   `json:"service"`
		Modules        []string `json:"modules"`
		InitialService string   `json:"initial_service"`
	}
	decode(t, rr, &body)
	if body.Service != "nucleusd" || strings.Join(body.Modules, ",") != "DAS,DafEar.base" {
		t.Errorf("unexpected info %s", rr.Body.String())
	}
	if body.InitialService != nucleustest.MyComponentPath {
		t.Errorf("unexpected initial service %q", body.InitialService)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)
	rr := get(s, "/livez")
	if rr.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := Config{CORS: middleware.CORSConfig{AllowedOrigins: []string{"http://console.local"}}}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/nucleus/GlobalComponent", http.NoBody)
	req.Header.Set("Origin", "http://console.local")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://console.local" {
		t.Errorf("unexpected CORS headers %v", rr.Header())
	}
}

func TestStartStop(t *testing.T) {
	s := New(Config{Host: "127.0.0.1"}, logger.Nop())
	s.RegisterDefaultEndpoints("nucleusd", nil)
	c := NewComponent(s)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %+v", h)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/livez")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy || h.Message != s.Addr() {
		t.Errorf("unexpected health %+v", h)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %+v", h)
	}
}

func TestTrackRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	summary := bootstrap.NewSummary("nucleusd", "1.0.0")
	s.TrackRoutes(summary)

	routes := summary.Routes()
	if len(routes) != 6 {
		t.Fatalf("expected 6 routes, got %d: %+v", len(routes), routes)
	}
	if routes[0].Path != "/nucleus-registrations" || routes[0].Handler != "registrations" {
		t.Errorf("expected browser routes first, got %+v", routes[0])
	}
	last := routes[len(routes)-1]
	if !systemPaths[last.Path] {
		t.Errorf("expected system route last, got %+v", last)
	}
}

func TestHandlerName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"github.com/kbukum/nucleus/server/endpoint.Component.func1", "component"},
		{"github.com/kbukum/nucleus/server/endpoint.Health.func1", "health"},
		{"github.com/acme/api.(*Handler).List-fm", "list"},
		{"main", "main"},
	}
	for _, tt := range tests {
		if got := handlerName(tt.in); got != tt.want {
			t.Errorf("handlerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
