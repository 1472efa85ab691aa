// AngelaMos | 2026
// handler_test.go

package user

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

func newTestRouter(t *testing.T) (http.Handler, *memoryRepo, *recordingRevoker) {
	t.Helper()

	svc, repo, revoker := newTestService(t)
	h := NewHandler(svc)

	asAdmin := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: adminID,
				Role:   RoleAdmin,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	h.RegisterRoutes(r, asAdmin)
	r.Route("/admin", func(r chi.Router) {
		r.Use(asAdmin)
		h.RegisterAdminRoutes(r)
	})

	return r, repo, revoker
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerGetMe(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, adminID, body.User.ID)
	assert.Equal(t, RoleAdmin, body.User.Role)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandlerAdminCreateAndList(t *testing.T) {
	h, repo, _ := newTestRouter(t)

	rec := do(h, http.MethodPost, "/admin/users",
		`{"email":"third@example.com","password":"long-enough-pw","role":"USER"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Contains(t, repo.users, created.ID)

	rec = do(h, http.MethodPost, "/admin/users",
		`{"email":"third@example.com","password":"long-enough-pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodPost, "/admin/users", `{"email":"bad","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Users, 3)
	assert.Equal(t, 3, list.Total)
}

func TestHandlerAdminUpdateAndDelete(t *testing.T) {
	h, repo, revoker := newTestRouter(t)

	rec := do(h, http.MethodPatch, "/admin/users/"+userID, `{"isDisabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.True(t, repo.users[userID].IsDisabled)
	assert.Equal(t, []string{userID}, revoker.revoked)

	rec = do(h, http.MethodPatch, "/admin/users/"+userID, `{"role":"OWNER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodDelete, "/admin/users/"+adminID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(h, http.MethodDelete, "/admin/users/"+userID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodDelete, "/admin/users/"+userID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
