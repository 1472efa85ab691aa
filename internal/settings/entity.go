// AngelaMos | 2026
// entity.go

package settings

import (
	"time"
)

// Settings is the single application-wide defaults row.
type Settings struct {
	DefaultCategoryID *string   `db:"default_category_id"`
	DefaultSectionID  *string   `db:"default_section_id"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// Patch is sparse: nil leaves a column as is, a pointer to "" clears it.
type Patch struct {
	DefaultCategoryID *string `json:"defaultCategoryId" validate:"omitempty,uuid"`
	DefaultSectionID  *string `json:"defaultSectionId"  validate:"omitempty,uuid"`
}

type Defaults struct {
	CategoryID *string `json:"categoryId"`
	SectionID  *string `json:"sectionId"`
}

type SettingsResponse struct {
	DefaultCategoryID *string   `json:"defaultCategoryId"`
	DefaultSectionID  *string   `json:"defaultSectionId"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// PublicConfig is served unauthenticated to bootstrap the web client.
type PublicConfig struct {
	AppVersion  string   `json:"appVersion"`
	Environment string   `json:"environment"`
	DBType      string   `json:"dbType"`
	DBPath      string   `json:"dbPath"`
	Defaults    Defaults `json:"defaults"`
}

func ToSettingsResponse(s *Settings) SettingsResponse {
	return SettingsResponse{
		DefaultCategoryID: s.DefaultCategoryID,
		DefaultSectionID:  s.DefaultSectionID,
		UpdatedAt:         s.UpdatedAt,
	}
}
