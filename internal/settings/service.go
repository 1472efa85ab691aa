// AngelaMos | 2026
// service.go

package settings

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/angelamos/promptvault/internal/config"
)

type Service struct {
	repo   Repository
	app    config.AppConfig
	dbURL  string
	logger *slog.Logger
}

func NewService(
	repo Repository,
	app config.AppConfig,
	db config.DatabaseConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		app:    app,
		dbURL:  db.URL,
		logger: logger.With("component", "settings"),
	}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, patch Patch) (*Settings, error) {
	out, err := s.repo.Update(ctx, patch)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "settings updated",
		"default_category_id", deref(out.DefaultCategoryID),
		"default_section_id", deref(out.DefaultSectionID),
	)
	return out, nil
}

func (s *Service) PublicConfig(ctx context.Context) (PublicConfig, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return PublicConfig{}, err
	}

	dbType, dbPath := describeDatabase(s.dbURL)

	return PublicConfig{
		AppVersion:  s.app.Version,
		Environment: s.app.Environment,
		DBType:      dbType,
		DBPath:      dbPath,
		Defaults: Defaults{
			CategoryID: current.DefaultCategoryID,
			SectionID:  current.DefaultSectionID,
		},
	}, nil
}

// describeDatabase reports the driver family and host/name of a connection
// URL with credentials and query parameters dropped.
func describeDatabase(raw string) (dbType, path string) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "unknown", ""
	}

	dbType = u.Scheme
	if dbType == "postgresql" {
		dbType = "postgres"
	}

	return dbType, u.Host + "/" + strings.TrimPrefix(u.Path, "/")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
