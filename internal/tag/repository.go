// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/angelamos/promptvault/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, userID, name string) (string, error)
	Attach(ctx context.Context, entryID, tagID string) error
	DetachAll(ctx context.Context, entryID string) error
	ForEntries(ctx context.Context, entryIDs []string) (map[string][]Ref, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Upsert returns the id of the (userID, name) tag, creating it if needed.
// The no-op DO UPDATE makes RETURNING yield the existing row, so racing
// callers converge on one id without surfacing a unique violation.
func (r *repository) Upsert(
	ctx context.Context,
	userID, name string,
) (string, error) {
	query := `
		INSERT INTO tags (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, uuid.New().String(), userID, name)
	if err != nil {
		return "", fmt.Errorf("upsert tag: %w", err)
	}

	return id, nil
}

func (r *repository) Attach(ctx context.Context, entryID, tagID string) error {
	query := `
		INSERT INTO entry_tags (entry_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (entry_id, tag_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, entryID, tagID); err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}

	return nil
}

func (r *repository) DetachAll(ctx context.Context, entryID string) error {
	query := `DELETE FROM entry_tags WHERE entry_id = $1`

	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("detach tags: %w", err)
	}

	return nil
}

func (r *repository) ForEntries(
	ctx context.Context,
	entryIDs []string,
) (map[string][]Ref, error) {
	out := make(map[string][]Ref, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
		SELECT et.entry_id, t.id, t.name
		FROM entry_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id IN (?)
		ORDER BY t.name ASC`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("build tag lookup: %w", err)
	}

	var rows []entryRef
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load entry tags: %w", err)
	}

	for _, row := range rows {
		out[row.EntryID] = append(out[row.EntryID], Ref{ID: row.ID, Name: row.Name})
	}

	return out, nil
}
