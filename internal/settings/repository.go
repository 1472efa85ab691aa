// AngelaMos | 2026
// repository.go

package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelamos/promptvault/internal/core"
)

const settingsRowID = 1

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, patch Patch) (*Settings, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Get creates the row on first access.
func (r *repository) Get(ctx context.Context) (*Settings, error) {
	query := `
		INSERT INTO app_settings (id) VALUES ($1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING default_category_id, default_section_id, updated_at`

	var s Settings
	if err := r.db.GetContext(ctx, &s, query, settingsRowID); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &s, nil
}

func (r *repository) Update(ctx context.Context, patch Patch) (*Settings, error) {
	columns := []string{"id"}
	values := []string{"$1"}
	sets := []string{"updated_at = NOW()"}
	args := []any{settingsRowID}
	argIdx := 2

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		var v any
		if *value != "" {
			v = *value
		}
		columns = append(columns, column)
		values = append(values, fmt.Sprintf("$%d", argIdx))
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
		args = append(args, v)
		argIdx++
	}

	add("default_category_id", patch.DefaultCategoryID)
	add("default_section_id", patch.DefaultSectionID)

	query := fmt.Sprintf(`
		INSERT INTO app_settings (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		RETURNING default_category_id, default_section_id, updated_at`,
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
		strings.Join(sets, ", "))

	var s Settings
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if core.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf(
				"unknown category or section: %w", core.ErrInvalidInput,
			)
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return &s, nil
}
