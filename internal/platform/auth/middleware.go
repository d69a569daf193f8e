package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tridala-nutra/api/internal/platform/httpx"
)

// TokenVerifier verifies bearer tokens and extracts the caller identity.
type TokenVerifier interface {
	Verify(raw string) (*Identity, error)
}

// Authenticator wires token verification into HTTP middleware.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator constructs an Authenticator for middleware composition.
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// RequireAuth verifies the Authorization bearer token and stores the identity
// on the request context. Missing or bad credentials yield 401.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.authenticate(r.Context(), w, r)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin behaves like RequireAuth but additionally rejects callers
// without the admin role with 403.
func (a *Authenticator) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := a.authenticate(r.Context(), w, r)
			if !ok {
				return
			}
			if !identity.IsAdmin() {
				httpx.WriteError(r.Context(), w, httpx.NewError("admin access required", http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func (a *Authenticator) authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Identity, bool) {
	raw, ok := extractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("authorization header missing or invalid", http.StatusUnauthorized))
		return nil, false
	}
	if a == nil || a.verifier == nil {
		httpx.WriteError(ctx, w, httpx.NewError("authorization service unavailable", http.StatusUnauthorized))
		return nil, false
	}

	identity, err := a.verifier.Verify(raw)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError(verificationMessage(err), http.StatusUnauthorized))
		return nil, false
	}
	return identity, true
}

func verificationMessage(err error) string {
	if errors.Is(err, ErrTokenExpired) {
		return "token expired"
	}
	return "invalid token"
}

func extractBearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}

	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
