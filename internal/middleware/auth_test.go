// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/promptvault/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
	seen   string
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (*AccessTokenClaims, error) {
	s.seen = token
	return s.claims, s.err
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context()) + "|" + GetUserRole(r.Context())))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
		status int
		code   string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", "Bearer tok", fmt.Errorf("parse: %w", core.ErrTokenExpired),
			http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"revoked", "Bearer tok", core.ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"garbage", "Bearer tok", fmt.Errorf("boom"), http.StatusUnauthorized, "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubVerifier{err: tt.err}
			h := Authenticator(v)(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestAuthenticatorStoresClaims(t *testing.T) {
	v := &stubVerifier{claims: &AccessTokenClaims{UserID: "u1", Role: RoleAdmin}}
	h := Authenticator(v)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer  tok-123 ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|ADMIN", rec.Body.String())
	assert.Equal(t, "tok-123", v.seen)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(echoUser))

	serve := func(claims *AccessTokenClaims) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if claims != nil {
			req = req.WithContext(WithClaims(req.Context(), claims))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)

	rec := serve(&AccessTokenClaims{UserID: "u1", Role: "USER"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	rec = serve(&AccessTokenClaims{UserID: "u1", Role: RoleAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClaimsHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Nil(t, GetClaims(ctx))
	assert.Empty(t, GetUserRole(ctx))

	claims := &AccessTokenClaims{UserID: "u1", Role: RoleAdmin, TokenID: "j1"}
	ctx = WithClaims(ctx, claims)
	assert.Equal(t, "u1", GetUserID(ctx))
	assert.Same(t, claims, GetClaims(ctx))
	assert.Equal(t, RoleAdmin, GetUserRole(ctx))
}
