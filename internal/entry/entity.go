// AngelaMos | 2026
// entity.go

package entry

import (
	"time"

	"github.com/angelamos/promptvault/internal/tag"
)

type Entry struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	CategoryID string     `db:"category_id"`
	SectionID  *string    `db:"section_id"`
	Title      *string    `db:"title"`
	PromptText string     `db:"prompt_text"`
	OutputText string     `db:"output_text"`
	ModelUsed  string     `db:"model_used"`
	Comments   *string    `db:"comments"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`

	Tags []tag.Ref `db:"-"`
}

// IsDeleted reports whether the entry carries a tombstone.
func (e *Entry) IsDeleted() bool {
	return e.DeletedAt != nil
}

// Patch holds the columns an update touches; nil means "leave as is".
type Patch struct {
	CategoryID *string
	SectionID  *string
	Title      *string
	PromptText *string
	OutputText *string
	ModelUsed  *string
	Comments   *string
}

// Counts is a global breakdown used by the admin stats endpoint.
type Counts struct {
	Live    int64 `db:"live"    json:"live"`
	Deleted int64 `db:"deleted" json:"deleted"`
}
