package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

func newEngine(tokens TokenParser, routes func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.Nop()), ErrorHandler(), Recovery(), Authenticate(tokens))
	routes(r)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errs.Response {
	t.Helper()
	var body errs.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRequestID(t *testing.T) {
	r := newEngine(auth.NewTokens("test-secret-0123456789", time.Hour), func(r *gin.Engine) {
		r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	})

	w := do(r, http.MethodGet, "/", "")
	if got := w.Header().Get(RequestIDHeader); got == "" || got != w.Body.String() {
		t.Fatalf("generated id header=%q body=%q", got, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("reused id = %q, want abc-123", got)
	}
}

func TestRequestLogger_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.New(&buf)), ErrorHandler())
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(errs.NotFound("Address 9 not found")) })

	w := do(r, http.MethodGet, "/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	// the request line is the last one written
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var line map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &line); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" || line["status"] != float64(404) || line["path"] != "/missing" {
		t.Fatalf("log line = %v", line)
	}
	if line["request_id"] == "" {
		t.Fatalf("log line has no request_id")
	}
}

func TestErrorHandler(t *testing.T) {
	r := newEngine(auth.NewTokens("test-secret-0123456789", time.Hour), func(r *gin.Engine) {
		r.GET("/conflict", func(c *gin.Context) {
			_ = c.Error(errs.Conflict("Integrity violation", "USER_IN_USE", errors.New("FOREIGN KEY constraint failed")))
		})
		r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("dial tcp: refused")) })
		r.GET("/panic", func(c *gin.Context) { panic("unexpected") })
	})

	w := do(r, http.MethodGet, "/conflict", "")
	body := decodeError(t, w)
	if w.Code != http.StatusConflict || body.Code != "USER_IN_USE" || body.Message != "Integrity violation" {
		t.Fatalf("conflict = %d %+v", w.Code, body)
	}

	w = do(r, http.MethodGet, "/boom", "")
	body = decodeError(t, w)
	if w.Code != http.StatusInternalServerError || strings.Contains(body.Message, "refused") {
		t.Fatalf("internal = %d %+v", w.Code, body)
	}

	w = do(r, http.MethodGet, "/panic", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d, want 500", w.Code)
	}
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokens("test-secret-0123456789", time.Hour)
	raw, err := tokens.Issue(&auth.Identity{UserID: 7, Username: "ana@example.com", Authorities: []string{model.RoleDoctor}})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := newEngine(tokens, func(r *gin.Engine) {
		r.GET("/whoami", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": CallerFrom(c).UserID})
		})
		r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		r.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		r.GET("/clinical", RequireRole(model.RoleDoctor, model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	})

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "anonymous passes through", path: "/whoami", status: http.StatusOK},
		{name: "garbage token", path: "/whoami", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "private anonymous", path: "/private", status: http.StatusUnauthorized},
		{name: "private with token", path: "/private", token: raw, status: http.StatusNoContent},
		{name: "admin as doctor", path: "/admin", token: raw, status: http.StatusForbidden},
		{name: "admin anonymous", path: "/admin", status: http.StatusUnauthorized},
		{name: "doctor route", path: "/clinical", token: raw, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tc.path, tc.token)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.status, w.Body.String())
			}
		})
	}

	w := do(r, http.MethodGet, "/whoami", raw)
	if !strings.Contains(w.Body.String(), `"id":7`) {
		t.Fatalf("caller not propagated: %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("basic auth status = %d, want 401", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 0.001, 2)
	r := newEngine(auth.NewTokens("test-secret-0123456789", time.Hour), func(r *gin.Engine) {
		r.POST("/auth/login", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })
	})

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/auth/login", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/auth/login", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if body := decodeError(t, w); body.Code != "TOO_MANY_REQUESTS" {
		t.Fatalf("code = %q", body.Code)
	}

	// another client has its own bucket
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("second client limited")
	}
}

func TestRateLimiter_Evict(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 1)
	rl.Allow("10.0.0.1")

	rl.evict(time.Now().Add(staleAfter + time.Second))

	rl.mu.Lock()
	n := len(rl.clients)
	rl.mu.Unlock()
	if n != 0 {
		t.Fatalf("clients = %d, want 0", n)
	}
}
