// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/promptvault/internal/config"
	"github.com/angelamos/promptvault/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "promptvault",
		Audience:           "promptvault-api",
	}
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()

	key, err := newSigningKey()
	require.NoError(t, err)

	m, err := newJWTManager(key, testJWTConfig())
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWT(t)

	issued, err := m.CreateAccessToken("user-1", "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	claims, err := m.ParseAccessToken(context.Background(), issued.Token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestAccessTokenExpired(t *testing.T) {
	m := newTestJWT(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	issued, err := m.CreateAccessToken("user-1", "USER")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(context.Background(), issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestAccessTokenFromOtherKeyRejected(t *testing.T) {
	signer := newTestJWT(t)
	verifier := newTestJWT(t)

	issued, err := signer.CreateAccessToken("user-1", "USER")
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(context.Background(), issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestAccessTokenGarbageRejected(t *testing.T) {
	m := newTestJWT(t)

	_, err := m.ParseAccessToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshTokenFamily(t *testing.T) {
	m := newTestJWT(t)

	first, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	assert.NotEmpty(t, first.FamilyID)
	assert.Equal(t, core.HashToken(first.Token), first.Hash)

	next, err := m.CreateRefreshToken(first.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, first.FamilyID, next.FamilyID)
	assert.NotEqual(t, first.Token, next.Token)
}

func TestJWKSHandler(t *testing.T) {
	m := newTestJWT(t)

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.NotContains(t, body.Keys[0], "d")
}

func TestGenerateKeyPairLoads(t *testing.T) {
	dir := t.TempDir()
	cfg := testJWTConfig()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)

	issued, err := m.CreateAccessToken("user-1", "USER")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(context.Background(), issued.Token)
	assert.NoError(t, err)
}
