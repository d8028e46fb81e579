package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/GitAbdalla/booking-system/internal/auth"
	"github.com/GitAbdalla/booking-system/internal/domain"
)

type identityKey struct{}

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity in the request context. The identity is trusted from
// here on; handlers never re-authenticate.
func RequireAuth(tokens TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authenticate(tokens, w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
	})
}

// authenticate resolves the bearer token on the request, writing the 401
// itself when the token is missing or invalid.
func authenticate(tokens TokenParser, w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return auth.Identity{}, false
	}

	claims, err := tokens.Parse(tokenStr)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
		return auth.Identity{}, false
	}

	return auth.Identity{
		UserID: claims.Sub,
		Role:   domain.Role(claims.Role),
		Email:  claims.Email,
	}, true
}

// RequireRole guards a route behind a role. Must run inside RequireAuth.
func RequireRole(role domain.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}
		if identity.Role != role {
			writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}

// WithIdentity injects a caller identity directly; test hook.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}
