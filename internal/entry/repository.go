// AngelaMos | 2026
// repository.go

package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelamos/promptvault/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, userID, id string, patch Patch) error
	SoftDelete(ctx context.Context, userID, id string) error
	Restore(ctx context.Context, userID, id string) error
	HardDelete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, params QueryParams) ([]Entry, error)
	Counts(ctx context.Context) (Counts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const entryColumns = `id, user_id, category_id, section_id, title, prompt_text,
		       output_text, model_used, comments, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO entries (
			id, user_id, category_id, section_id, title,
			prompt_text, output_text, model_used, comments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID,
		e.UserID,
		e.CategoryID,
		e.SectionID,
		e.Title,
		e.PromptText,
		e.OutputText,
		e.ModelUsed,
		e.Comments,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create entry: %w", classify(err))
	}

	return nil
}

// Update applies a sparse patch. Soft-deleted entries are still
// updatable; only ownership gates the write.
func (r *repository) Update(
	ctx context.Context,
	userID, id string,
	patch Patch,
) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{id, userID}
	argIdx := 3

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, *value)
		argIdx++
	}

	add("category_id", patch.CategoryID)
	add("section_id", patch.SectionID)
	add("title", patch.Title)
	add("prompt_text", patch.PromptText)
	add("output_text", patch.OutputText)
	add("model_used", patch.ModelUsed)
	add("comments", patch.Comments)

	query := fmt.Sprintf(`
		UPDATE entries
		SET %s
		WHERE id = $1 AND user_id = $2`,
		strings.Join(sets, ", "))

	return r.execOwned(ctx, "update entry", query, args...)
}

// SoftDelete stamps deleted_at with the current time on every call, so a
// repeated delete restarts the retention clock.
func (r *repository) SoftDelete(ctx context.Context, userID, id string) error {
	query := `
		UPDATE entries
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "soft delete entry", query, id, userID)
}

func (r *repository) Restore(ctx context.Context, userID, id string) error {
	query := `
		UPDATE entries
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "restore entry", query, id, userID)
}

// HardDelete removes associations and then the row. Callers run it in a
// transaction so a NotFound leaves nothing half-deleted.
func (r *repository) HardDelete(ctx context.Context, userID, id string) error {
	detach := `
		DELETE FROM entry_tags
		WHERE entry_id IN (
			SELECT id FROM entries WHERE id = $1 AND user_id = $2
		)`

	if _, err := r.db.ExecContext(ctx, detach, id, userID); err != nil {
		return fmt.Errorf("hard delete entry: %w", err)
	}

	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`

	return r.execOwned(ctx, "hard delete entry", query, id, userID)
}

// List runs the database half of the query engine: ownership, visibility,
// free text and category/section filters, newest first, capped at Take.
// Tag filtering happens afterwards in the service.
func (r *repository) List(
	ctx context.Context,
	userID string,
	params QueryParams,
) ([]Entry, error) {
	params.Normalize()

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	argIdx := 2

	if params.IncludeDeleted {
		conditions = append(conditions, "deleted_at IS NOT NULL")
	} else {
		conditions = append(conditions, "deleted_at IS NULL")
	}

	if params.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIdx))
		args = append(args, params.CategoryID)
		argIdx++
	}

	if params.SectionID != "" {
		conditions = append(conditions, fmt.Sprintf("section_id = $%d", argIdx))
		args = append(args, params.SectionID)
		argIdx++
	}

	if params.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR prompt_text ILIKE $%d OR output_text ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Query)+"%")
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM entries
		WHERE %s
		ORDER BY updated_at DESC, id DESC
		LIMIT $%d`,
		entryColumns, strings.Join(conditions, " AND "), argIdx)

	args = append(args, params.Take)

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

func (r *repository) Counts(ctx context.Context) (Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE deleted_at IS NULL)     AS live,
			COUNT(*) FILTER (WHERE deleted_at IS NOT NULL) AS deleted
		FROM entries`

	var c Counts
	if err := r.db.GetContext(ctx, &c, query); err != nil {
		return Counts{}, fmt.Errorf("count entries: %w", err)
	}

	return c, nil
}

func (r *repository) execOwned(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

// classify turns a dangling category/section reference into a validation
// error.
func classify(err error) error {
	if core.IsForeignKeyViolation(err) {
		return fmt.Errorf("unknown category or section: %w", core.ErrInvalidInput)
	}
	return err
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
