package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
)

func TestCookieExtractor(t *testing.T) {
	extract := CookieExtractor("access_token_cookie")

	t.Run("present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "tok-123"})

		token, ok := extract(req)
		assert.True(t, ok)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := extract(req)
		assert.False(t, ok)
	})

	t.Run("empty value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: ""})

		_, ok := extract(req)
		assert.False(t, ok)
	})

	t.Run("other cookie ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok-123"})

		_, ok := extract(req)
		assert.False(t, ok)
	})
}

func TestHeaderExtractor(t *testing.T) {
	extract := HeaderExtractor()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{"bearer token", "Bearer tok-123", "tok-123", true},
		{"case insensitive scheme", "bearer tok-123", "tok-123", true},
		{"no header", "", "", false},
		{"missing token", "Bearer ", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"scheme only", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, ok := extract(req)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func staticResolver(identity *Identity, err error) IdentityResolver {
	return func(ctx context.Context, token string) (*Identity, error) {
		return identity, err
	}
}

func TestAuth_NoTokenPassesThroughAnonymously(t *testing.T) {
	resolverCalled := false
	mw := Auth(CookieExtractor("access_token_cookie"), func(ctx context.Context, token string) (*Identity, error) {
		resolverCalled = true
		return nil, errors.New("should not be called")
	})

	var seen *Identity
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, resolverCalled)
	assert.Nil(t, seen)
}

func TestAuth_InvalidTokenRejected(t *testing.T) {
	mw := Auth(CookieExtractor("access_token_cookie"), staticResolver(nil, apperrors.Unauthorized("invalid or expired token")))

	nextCalled := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "garbage"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, nextCalled)
	assert.Contains(t, rr.Body.String(), "invalid or expired token")
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestAuth_ResolverErrorWithoutAppErrorUsesGenericMessage(t *testing.T) {
	mw := Auth(CookieExtractor("access_token_cookie"), staticResolver(nil, errors.New("pg: connection refused")))

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "tok"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid or expired token")
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestAuth_ValidTokenAttachesIdentity(t *testing.T) {
	want := &Identity{UserID: "user-1", Username: "john"}
	mw := Auth(CookieExtractor("access_token_cookie"), staticResolver(want, nil))

	var seen *Identity
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "tok-123"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, "john", seen.Username)
}

func TestIdentityFromContext_EmptyContext(t *testing.T) {
	assert.Nil(t, IdentityFromContext(context.Background()))
}
