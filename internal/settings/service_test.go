// AngelaMos | 2026
// service_test.go

package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/promptvault/internal/config"
)

type staticRepo struct {
	s Settings
}

func (r *staticRepo) Get(context.Context) (*Settings, error) {
	cp := r.s
	return &cp, nil
}

func (r *staticRepo) Update(_ context.Context, p Patch) (*Settings, error) {
	if p.DefaultCategoryID != nil {
		r.s.DefaultCategoryID = p.DefaultCategoryID
	}
	r.s.UpdatedAt = time.Now()
	return r.Get(context.Background())
}

func TestDescribeDatabase(t *testing.T) {
	tests := []struct {
		raw      string
		wantType string
		wantPath string
	}{
		{"postgres://pv:secret@db:5432/promptvault?sslmode=disable", "postgres", "db:5432/promptvault"},
		{"postgresql://localhost/pv", "postgres", "localhost/pv"},
		{"", "unknown", ""},
	}

	for _, tt := range tests {
		gotType, gotPath := describeDatabase(tt.raw)
		assert.Equal(t, tt.wantType, gotType, tt.raw)
		assert.Equal(t, tt.wantPath, gotPath, tt.raw)
		assert.NotContains(t, gotPath, "secret")
	}
}

func TestPublicConfig(t *testing.T) {
	cat := "c1"
	repo := &staticRepo{s: Settings{DefaultCategoryID: &cat}}
	svc := NewService(
		repo,
		config.AppConfig{Version: "0.3.0", Environment: "development"},
		config.DatabaseConfig{URL: "postgres://u:p@localhost:5432/pv"},
		nil,
	)

	cfg, err := svc.PublicConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.3.0", cfg.AppVersion)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "localhost:5432/pv", cfg.DBPath)
	require.NotNil(t, cfg.Defaults.CategoryID)
	assert.Equal(t, "c1", *cfg.Defaults.CategoryID)
	assert.Nil(t, cfg.Defaults.SectionID)
}
