// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, rehash, err := VerifyPassword("correct-horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rehash)

	ok, _, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordFlagsStaleParams(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("pw"), salt, 2, 32*1024, 2, 32)
	stale := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, 32*1024, 2, 2,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	ok, rehash, err := VerifyPassword("pw", stale)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, rehash)

	ok, again, err := VerifyPassword("pw", rehash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, again)
}

func TestVerifyPasswordMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$garbage$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
	} {
		ok, _, err := VerifyPassword("pw", encoded)
		assert.Error(t, err, encoded)
		assert.False(t, ok, encoded)
	}
}

func TestRefreshTokenHelpers(t *testing.T) {
	tok, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, tok, 44)

	other, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)

	assert.Equal(t, HashToken(tok), HashToken(tok))
	assert.NotEqual(t, HashToken(tok), HashToken(other))
	assert.Len(t, HashToken(tok), 64)
}
