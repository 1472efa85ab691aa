// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://pv:pv@localhost:5432/promptvault?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "PromptVault", cfg.App.Name)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8787", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 30, cfg.Retention.Days)
	assert.Equal(t, 500, cfg.Retention.BatchSize)
	assert.Equal(t, "General", cfg.Bootstrap.CategoryName)
	assert.Equal(t, []string{"Inbox", "Reference"}, cfg.Bootstrap.SectionNames)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("RETENTION_BATCH_SIZE", "50")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "root@example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Retention.Days)
	assert.Equal(t, 50, cfg.Retention.BatchSize)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "root@example.com", cfg.Bootstrap.AdminEmail)
}

func TestLoadFileThenEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: text
retention:
  days: 90
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 90, cfg.Retention.Days)
}

func TestLoadMissingFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"retention too small", map[string]string{"RETENTION_DAYS": "0"}},
		{"retention too large", map[string]string{"RETENTION_DAYS": "3651"}},
		{"bad batch size", map[string]string{"RETENTION_BATCH_SIZE": "0"}},
		{"wildcard with credentials", map[string]string{"CORS_ORIGIN": "*"}},
		{"default admin password in production", map[string]string{"APP_ENV": "production"}},
		{"zero rate limit", map[string]string{"RATE_LIMIT_REQUESTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadValidationReportsEveryProblem(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RETENTION_DAYS", "0")
	t.Setenv("RETENTION_BATCH_SIZE", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention.days must be between 1 and 3650")
	assert.Contains(t, err.Error(), "retention.batch_size must be positive")
}

func TestLoadProductionWithCustomAdminPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "a-real-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
