// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/promptvault/internal/middleware"
)

func newAuthRouter(t *testing.T) (http.Handler, *authFixture) {
	t.Helper()

	f := newAuthFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.svc))
	return r, f
}

func post(h http.Handler, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.RemoteAddr = "10.1.1.1:4000"
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) AuthResponse {
	t.Helper()

	rec := post(h, "/auth/login", `{"email":"admin@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandlerLogin(t *testing.T) {
	h, f := newAuthRouter(t)

	resp := login(t, h)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	var ip string
	f.tokens.each(func(tok *RefreshToken) { ip = tok.IPAddress })
	assert.Equal(t, "10.1.1.1", ip)
}

func TestHandlerLoginRejections(t *testing.T) {
	h, _ := newAuthRouter(t)

	rec := post(h, "/auth/login", `{"email":"admin@example.com","password":"wrong-one"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")

	rec = post(h, "/auth/login", `{"email":"admin@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h, "/auth/login", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRefreshReuse(t *testing.T) {
	h, _ := newAuthRouter(t)
	first := login(t, h)

	body := `{"refreshToken":"` + first.RefreshToken + `"}`
	rec := post(h, "/auth/refresh", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post(h, "/auth/refresh", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REUSE_DETECTED")

	rec = post(h, "/auth/refresh", `{"refreshToken":"unknown"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
}

func TestHandlerLogout(t *testing.T) {
	h, f := newAuthRouter(t)
	session := login(t, h)

	rec := post(h, "/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(h, "/auth/logout", "", session.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Len(t, f.blacklist.revoked, 1)

	rec = post(h, "/auth/logout", "", session.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}
