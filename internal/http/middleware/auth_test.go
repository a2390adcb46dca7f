package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tasktracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubResolver struct {
	identity *domain.Identity
	calls    int
}

func (r *stubResolver) Resolve(_ context.Context, token string) *domain.Identity {
	r.calls++
	if token == "valid" {
		return r.identity
	}
	return nil
}

func testIdentity(role string) *domain.Identity {
	return &domain.Identity{
		User:    &domain.User{ID: uuid.New(), Role: role},
		Session: &domain.Session{ID: uuid.New()},
	}
}

func newAuthTestRouter(resolver *stubResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(resolver))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestSessionSkipsPreflight(t *testing.T) {
	resolver := &stubResolver{identity: testIdentity(domain.RoleUser)}
	r := newAuthTestRouter(resolver)

	req := httptest.NewRequest(http.MethodOptions, "/private", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if resolver.calls != 0 {
		t.Error("OPTIONS preflight must bypass session resolution")
	}
}

func TestRequireAuth(t *testing.T) {
	resolver := &stubResolver{identity: testIdentity(domain.RoleUser)}
	r := newAuthTestRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", w.Code)
	}
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	resolver := &stubResolver{identity: testIdentity(domain.RoleUser)}
	r := newAuthTestRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "valid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("cookie token: expected 200, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	resolver := &stubResolver{identity: testIdentity(domain.RoleUser)}
	r := newAuthTestRouter(resolver)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin: expected 403, got %d", w.Code)
	}

	resolver.identity = testIdentity(domain.RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", w.Code)
	}
}
