// AngelaMos | 2026
// keygen_test.go

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath = ""
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestKeygenWritesKeyPair(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "keys", "private.pem")
	pub := filepath.Join(dir, "keys", "public.pem")

	out, err := execute(t, "keygen", "--private", priv, "--public", pub)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	privPEM, err := os.ReadFile(priv)
	require.NoError(t, err)
	assert.Contains(t, string(privPEM), "PRIVATE KEY")

	pubPEM, err := os.ReadFile(pub)
	require.NoError(t, err)
	assert.Contains(t, string(pubPEM), "PUBLIC KEY")

	info, err := os.Stat(priv)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestKeygenRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(priv, []byte("keep"), 0o600))

	_, err := execute(t, "keygen", "--private", priv, "--public", pub)
	require.Error(t, err)

	body, err := os.ReadFile(priv)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(body))

	_, err = execute(t, "keygen", "--private", priv, "--public", pub, "--force")
	require.NoError(t, err)
}

func TestRootListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"migrate", "purge", "keygen", "bootstrap"} {
		assert.Contains(t, out, name)
	}
}
