package auth

import (
	"testing"
	"time"

	"github.com/GitAbdalla/booking-system/internal/domain"
	jwt "github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_SignAndParse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := domain.User{ID: "user-1", Email: "a@b.c", Role: domain.RoleAdmin}

	token, err := issuer.Sign(user, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Fatalf("expected sub user-1, got %s", claims.Sub)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %s", claims.Role)
	}
	if claims.Email != "a@b.c" {
		t.Fatalf("expected email a@b.c, got %s", claims.Email)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt.Time)
	}
}

func TestTokenIssuer_Parse_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := domain.User{ID: "user-1", Role: domain.RoleUser}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour)
		token, err := other.Sign(user, now)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := issuer.Parse(token); err == nil {
			t.Fatalf("expected error for token signed with another secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Sign(user, now.Add(-2*time.Hour))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := issuer.Parse(token); err == nil {
			t.Fatalf("expected error for expired token")
		}
	})

	t.Run("wrong signing method", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Sub: "user-1"})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := issuer.Parse(token); err == nil {
			t.Fatalf("expected error for unsigned token")
		}
	})

	t.Run("garbage input", func(t *testing.T) {
		if _, err := issuer.Parse("not.a.token"); err == nil {
			t.Fatalf("expected error for malformed token")
		}
	})
}
