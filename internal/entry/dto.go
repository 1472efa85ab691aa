// AngelaMos | 2026
// dto.go

package entry

import (
	"strconv"
	"time"

	"github.com/angelamos/promptvault/internal/tag"
)

const (
	DefaultTake = 100
	MaxTake     = 500
)

type CreateEntryRequest struct {
	CategoryID string   `json:"categoryId" validate:"required,uuid"`
	SectionID  *string  `json:"sectionId"  validate:"omitempty,uuid"`
	Title      *string  `json:"title"`
	PromptText string   `json:"promptText" validate:"required"`
	OutputText string   `json:"outputText" validate:"required"`
	ModelUsed  string   `json:"modelUsed"  validate:"required"`
	Comments   *string  `json:"comments"`
	Tags       []string `json:"tags"`
}

// UpdateEntryRequest is a sparse patch: a nil field is left untouched. Tags
// is a pointer so that an explicit [] (clear) differs from an absent field.
type UpdateEntryRequest struct {
	CategoryID *string   `json:"categoryId" validate:"omitempty,uuid"`
	SectionID  *string   `json:"sectionId"  validate:"omitempty,uuid"`
	Title      *string   `json:"title"`
	PromptText *string   `json:"promptText" validate:"omitempty,min=1"`
	OutputText *string   `json:"outputText" validate:"omitempty,min=1"`
	ModelUsed  *string   `json:"modelUsed"  validate:"omitempty,min=1"`
	Comments   *string   `json:"comments"`
	Tags       *[]string `json:"tags"`
}

type QueryParams struct {
	Query          string
	CategoryID     string
	SectionID      string
	Tag            string
	IncludeDeleted bool
	Take           int
}

// Normalize applies the default page size and the hard cap.
func (p *QueryParams) Normalize() {
	if p.Take < 1 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
}

// ParseTake reads the take query value; anything unparsable means default.
func ParseTake(raw string) int {
	if raw == "" {
		return DefaultTake
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultTake
	}
	return n
}

type EntryResponse struct {
	ID         string     `json:"id"`
	Title      *string    `json:"title"`
	PromptText string     `json:"promptText"`
	OutputText string     `json:"outputText"`
	ModelUsed  string     `json:"modelUsed"`
	Comments   *string    `json:"comments"`
	CategoryID string     `json:"categoryId"`
	SectionID  *string    `json:"sectionId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
	Tags       []tag.Ref  `json:"tags"`
}

type ListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func ToEntryResponse(e *Entry) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []tag.Ref{}
	}

	return EntryResponse{
		ID:         e.ID,
		Title:      e.Title,
		PromptText: e.PromptText,
		OutputText: e.OutputText,
		ModelUsed:  e.ModelUsed,
		Comments:   e.Comments,
		CategoryID: e.CategoryID,
		SectionID:  e.SectionID,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		DeletedAt:  e.DeletedAt,
		Tags:       tags,
	}
}

func ToListResponse(entries []Entry) ListResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return ListResponse{Entries: out}
}
