package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

type contextKeyType string

const identityKey contextKeyType = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenExtractor pulls a raw bearer credential out of a request. Returning
// false means authentication was not attempted, which is distinct from an
// invalid token.
type TokenExtractor func(r *http.Request) (string, bool)

// CookieExtractor returns an extractor that reads the token from the named
// HTTP cookie.
func CookieExtractor(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// HeaderExtractor returns an extractor that reads a "Bearer <token>"
// Authorization header.
func HeaderExtractor() TokenExtractor {
	return func(r *http.Request) (string, bool) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
}

// IdentityResolver validates a raw token and resolves the identity it is
// bound to. It returns an error when the token is invalid or expired, or when
// the token is valid but no user can be resolved from it.
type IdentityResolver func(ctx context.Context, token string) (*Identity, error)

// Auth composes a token extraction strategy with identity resolution.
// A request with no extractable token passes through anonymously; downstream
// handlers decide whether anonymous access is acceptable. A request with a
// token that fails resolution is rejected with 401.
func Auth(extract TokenExtractor, resolve IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extract(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolve(r.Context(), token)
			if err != nil {
				message := "invalid or expired token"
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) {
					message = appErr.Message
				}
				writeAuthError(w, message)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request
// context. Returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey).(*Identity); ok {
		return id
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
