// AngelaMos | 2026
// entity.go

package category

import (
	"time"
)

type Category struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`

	Sections []Section `db:"-"`
}

type Section struct {
	ID         string    `db:"id"`
	CategoryID string    `db:"category_id"`
	Name       string    `db:"name"`
	SortOrder  int       `db:"sort_order"`
	CreatedAt  time.Time `db:"created_at"`
}
