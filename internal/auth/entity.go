// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/angelamos/promptvault/internal/core"
)

// RefreshToken is the stored half of a refresh credential. Tokens issued by
// successive refreshes share a FamilyID so that replaying a consumed token
// can revoke the whole chain.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

// State reports why a token can no longer be exchanged, or nil.
func (t *RefreshToken) State(now time.Time) error {
	switch {
	case t.IsUsed:
		return ErrTokenReuse
	case t.RevokedAt != nil:
		return core.ErrTokenRevoked
	case !now.Before(t.ExpiresAt):
		return core.ErrTokenExpired
	}
	return nil
}

// UserInfo is what authentication needs to know about an account.
type UserInfo struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Disabled     bool
	CreatedAt    time.Time
}
