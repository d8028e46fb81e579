package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GitAbdalla/booking-system/internal/auth"
	"github.com/GitAbdalla/booking-system/internal/domain"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	user := domain.User{ID: "user-1", Email: "a@b.c", Role: domain.RoleUser}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			t.Fatalf("expected identity in context")
		}
		if identity.UserID != "user-1" || identity.Role != domain.RoleUser {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := issuer.Sign(user, time.Now())
		if err != nil {
			t.Fatalf("sign: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/bookings/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		RequireAuth(issuer, next).ServeHTTP(rec, r)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(issuer, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/me", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/bookings/me", nil)
		r.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		RequireAuth(issuer, next).ServeHTTP(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Sign(user, time.Now().Add(-2*time.Hour))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}

		r := httptest.NewRequest(http.MethodGet, "/bookings/me", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		RequireAuth(issuer, next).ServeHTTP(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := RequireRole(domain.RoleAdmin, next)

	t.Run("admin allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, authedRequest(http.MethodGet, "/users", "", auth.Identity{UserID: "admin-1", Role: domain.RoleAdmin}))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("user forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, authedRequest(http.MethodGet, "/users", "", auth.Identity{UserID: "user-1", Role: domain.RoleUser}))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
