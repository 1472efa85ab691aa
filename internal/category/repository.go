// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"fmt"

	"github.com/angelamos/promptvault/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	RenameCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error
	CreateSection(ctx context.Context, s *Section) error
	UpdateSection(ctx context.Context, id string, name *string, sortOrder *int) error
	DetachSection(ctx context.Context, id string) error
	DeleteSection(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.SelectContext(ctx, &categories, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var sections []Section
	err = r.db.SelectContext(ctx, &sections, `
		SELECT id, category_id, name, sort_order, created_at
		FROM sections
		ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	index := make(map[string]int, len(categories))
	for i := range categories {
		categories[i].Sections = []Section{}
		index[categories[i].ID] = i
	}
	for _, s := range sections {
		if i, ok := index[s.CategoryID]; ok {
			categories[i].Sections = append(categories[i].Sections, s)
		}
	}

	return categories, nil
}

func (r *repository) CreateCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &c.CreatedAt, query, c.ID, c.Name); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *repository) RenameCategory(ctx context.Context, id, name string) error {
	return r.exec(ctx, "rename category",
		`UPDATE categories SET name = $2 WHERE id = $1`, id, name)
}

// DeleteCategory cascades to sections. Entries hold a RESTRICT reference,
// so a category still in use surfaces as core.ErrConflict.
func (r *repository) DeleteCategory(ctx context.Context, id string) error {
	err := r.exec(ctx, "delete category",
		`DELETE FROM categories WHERE id = $1`, id)
	if core.IsForeignKeyViolation(err) {
		return fmt.Errorf("delete category: %w", core.ErrConflict)
	}
	return err
}

func (r *repository) CreateSection(ctx context.Context, s *Section) error {
	query := `
		INSERT INTO sections (id, category_id, name, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID, s.CategoryID, s.Name, s.SortOrder)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create section: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

func (r *repository) UpdateSection(
	ctx context.Context,
	id string,
	name *string,
	sortOrder *int,
) error {
	query := `
		UPDATE sections
		SET name = COALESCE($2, name),
		    sort_order = COALESCE($3, sort_order)
		WHERE id = $1`

	return r.exec(ctx, "update section", query, id, name, sortOrder)
}

// DetachSection clears the section from every entry that references it,
// live or deleted, across all users.
func (r *repository) DetachSection(ctx context.Context, id string) error {
	query := `UPDATE entries SET section_id = NULL WHERE section_id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("detach section: %w", err)
	}
	return nil
}

func (r *repository) DeleteSection(ctx context.Context, id string) error {
	return r.exec(ctx, "delete section",
		`DELETE FROM sections WHERE id = $1`, id)
}

func (r *repository) exec(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
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
