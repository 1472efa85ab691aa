// AngelaMos | 2026
// service.go

package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/promptvault/internal/config"
	"github.com/angelamos/promptvault/internal/core"
)

type Result struct {
	Purged int64
	Cutoff time.Time
}

type Service struct {
	repo      Repository
	days      int
	batchSize int
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	cfg config.RetentionConfig,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	batch := cfg.BatchSize
	if batch < 1 {
		batch = 500
	}

	return &Service{
		repo:      repo,
		days:      cfg.Days,
		batchSize: batch,
		logger:    logger.With("component", "retention"),
	}
}

// DefaultDays is the window used when a caller does not name one.
func (s *Service) DefaultDays() int {
	return s.days
}

// Purge hard-deletes every entry, across all users, whose tombstone is older
// than now minus days. Batches commit independently: on error the entries
// removed so far stay removed and Result.Purged reports them.
func (s *Service) Purge(
	ctx context.Context,
	days int,
	now time.Time,
) (Result, error) {
	if days < config.MinRetentionDays || days > config.MaxRetentionDays {
		return Result{}, fmt.Errorf(
			"days must be between %d and %d: %w",
			config.MinRetentionDays,
			config.MaxRetentionDays,
			core.ErrInvalidInput,
		)
	}

	res := Result{Cutoff: now.Add(-time.Duration(days) * 24 * time.Hour).UTC()}

	ctx, span := core.StartSpan(ctx, "retention.Purge",
		attribute.Int("days", days),
		attribute.Int("batch_size", s.batchSize),
	)
	defer span.End()

	for {
		n, err := s.repo.PurgeBatch(ctx, res.Cutoff, s.batchSize)
		res.Purged += n
		if err != nil {
			core.SetSpanError(ctx, err)
			s.logger.ErrorContext(ctx, "purge interrupted",
				"purged", res.Purged,
				"error", err,
			)
			return res, err
		}

		if n < int64(s.batchSize) {
			break
		}

		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("purge: %w", err)
		}
	}

	span.SetAttributes(attribute.Int64("purged", res.Purged))
	s.logger.InfoContext(ctx, "retention purge complete",
		"days", days,
		"cutoff", res.Cutoff,
		"purged", res.Purged,
	)

	return res, nil
}
