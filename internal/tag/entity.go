// AngelaMos | 2026
// entity.go

package tag

import (
	"time"
)

// Tag is owned by exactly one user; (UserID, Name) is unique and names are
// compared case-sensitively.
type Tag struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Ref is a resolved association as returned alongside an entry.
type Ref struct {
	ID   string `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}

type entryRef struct {
	EntryID string `db:"entry_id"`
	ID      string `db:"id"`
	Name    string `db:"name"`
}
