package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"speshway-platform/internal/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(strings.Repeat("s", 32), newRedis(t))
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestRequireAuthAndRoles(t *testing.T) {
	tokens := newTokens(t)
	authMW := NewAuthMiddleware(tokens)
	roles := NewRoleMiddleware()

	r := gin.New()
	r.GET("/admin", authMW.RequireAuth(), roles.AdminGuard(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	adminToken, _, err := tokens.IssueAccessToken(context.Background(), "admin-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	hrToken, _, err := tokens.IssueAccessToken(context.Background(), "hr-1", "hr")
	if err != nil {
		t.Fatal(err)
	}

	if w := do(r, http.MethodGet, "/admin", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}
	if w := do(r, http.MethodGet, "/admin", bearer("garbage")); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", w.Code)
	}
	forbidden := do(r, http.MethodGet, "/admin", bearer(hrToken))
	if forbidden.Code != http.StatusForbidden {
		t.Errorf("hr token: status %d, want 403", forbidden.Code)
	}
	if body := forbidden.Body.String(); !strings.Contains(body, `"error_code":"forbidden"`) || !strings.Contains(body, `"user_role":"hr"`) {
		t.Errorf("hr token body = %s", body)
	}
	w := do(r, http.MethodGet, "/admin", bearer(adminToken))
	if w.Code != http.StatusOK || w.Body.String() != "admin-1" {
		t.Errorf("admin token: status %d body %q", w.Code, w.Body.String())
	}

	cookie := http.Header{"Cookie": {"access_token=" + adminToken}}
	if w := do(r, http.MethodGet, "/admin", cookie); w.Code != http.StatusOK {
		t.Errorf("cookie token: status %d, want 200", w.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := newTokens(t)
	authMW := NewAuthMiddleware(tokens)

	r := gin.New()
	r.GET("/", authMW.OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, GetRole(c))
	})

	if w := do(r, http.MethodGet, "/", nil); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Errorf("anonymous: %d %q", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/", bearer("garbage")); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Errorf("invalid token must be ignored: %d %q", w.Code, w.Body.String())
	}

	token, _, _ := tokens.IssueAccessToken(context.Background(), "u", "admin")
	if w := do(r, http.MethodGet, "/", bearer(token)); w.Body.String() != "admin" {
		t.Errorf("role = %q, want admin", w.Body.String())
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"Bearer abc":    "abc",
		"bearer abc":    "abc",
		"Basic abc":     "",
		"Bearer":        "",
		"Bearer a b":    "",
		"  Bearer  xyz": "xyz",
	}
	for header, want := range tests {
		if got := ExtractTokenFromHeader(header); got != want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rdb := newRedis(t)

	r := gin.New()
	r.POST("/api/sentences", RateLimitMiddleware(rdb, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/api/sentences", nil); w.Code != http.StatusCreated {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/api/sentences", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("third request: status %d, want 429", w.Code)
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining header = %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	r := gin.New()
	r.POST("/x", RateLimitMiddleware(rdb, 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 3; i++ {
		if w := do(r, http.MethodPost, "/x", nil); w.Code != http.StatusNoContent {
			t.Errorf("request %d: status %d, want 204", i, w.Code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := do(r, http.MethodGet, "/", nil)
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("generated id %q, body %q", generated, w.Body.String())
	}

	w = do(r, http.MethodGet, "/", http.Header{RequestIDHeader: {"abc-123"}})
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("incoming id not propagated: %q", w.Header().Get(RequestIDHeader))
	}
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", RequestSizeLimit(4), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long body"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d, want 413", w.Code)
	}
}

func TestResourceFromPath(t *testing.T) {
	tests := map[string]string{
		"/api/home-banners/:id": "home-banners",
		"/api/clients":          "clients",
		"":                      "unknown",
	}
	for path, want := range tests {
		if got := resourceFromPath(path); got != want {
			t.Errorf("resourceFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
