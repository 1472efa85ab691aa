// AngelaMos | 2026
// repository.go

package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/promptvault/internal/core"
)

type Repository interface {
	PurgeBatch(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// PurgeBatch hard-deletes up to limit tombstoned entries older than cutoff.
// The outer predicate is repeated so a row restored between the subselect
// and the delete survives. entry_tags rows go with ON DELETE CASCADE.
func (r *repository) PurgeBatch(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) (int64, error) {
	query := `
		DELETE FROM entries
		WHERE deleted_at IS NOT NULL
		  AND deleted_at < $1
		  AND id IN (
			SELECT id FROM entries
			WHERE deleted_at IS NOT NULL AND deleted_at < $1
			ORDER BY deleted_at ASC
			LIMIT $2
		  )`

	result, err := r.db.ExecContext(ctx, query, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("purge batch: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge batch: %w", err)
	}

	return n, nil
}
