// AngelaMos | 2026
// dto.go

package category

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateSectionRequest struct {
	Name      string `json:"name"      validate:"required,min=1,max=100"`
	SortOrder int    `json:"sortOrder" validate:"min=0"`
}

type UpdateSectionRequest struct {
	Name      *string `json:"name"      validate:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type SectionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

type CategoryResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Sections []SectionResponse `json:"sections"`
}

type ListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func ToCategoryResponse(c *Category) CategoryResponse {
	sections := make([]SectionResponse, 0, len(c.Sections))
	for _, s := range c.Sections {
		sections = append(sections, SectionResponse{
			ID:        s.ID,
			Name:      s.Name,
			SortOrder: s.SortOrder,
		})
	}

	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Sections: sections,
	}
}

func ToListResponse(categories []Category) ListResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return ListResponse{Categories: out}
}
