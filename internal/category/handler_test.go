// AngelaMos | 2026
// handler_test.go

package category

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/promptvault/internal/core"
)

type memoryRepo struct {
	categories []Category
	inUse      map[string]bool
	detached   []string
}

func (m *memoryRepo) List(context.Context) ([]Category, error) {
	return m.categories, nil
}

func (m *memoryRepo) CreateCategory(_ context.Context, c *Category) error {
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memoryRepo) find(id string) int {
	for i := range m.categories {
		if m.categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryRepo) RenameCategory(_ context.Context, id, name string) error {
	i := m.find(id)
	if i < 0 {
		return fmt.Errorf("rename: %w", core.ErrNotFound)
	}
	m.categories[i].Name = name
	return nil
}

func (m *memoryRepo) DeleteCategory(_ context.Context, id string) error {
	if m.inUse[id] {
		return fmt.Errorf("delete: %w", core.ErrConflict)
	}
	i := m.find(id)
	if i < 0 {
		return fmt.Errorf("delete: %w", core.ErrNotFound)
	}
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	return nil
}

func (m *memoryRepo) CreateSection(_ context.Context, s *Section) error {
	i := m.find(s.CategoryID)
	if i < 0 {
		return fmt.Errorf("create section: %w", core.ErrNotFound)
	}
	m.categories[i].Sections = append(m.categories[i].Sections, *s)
	return nil
}

func (m *memoryRepo) UpdateSection(context.Context, string, *string, *int) error {
	return nil
}

func (m *memoryRepo) DetachSection(_ context.Context, id string) error {
	m.detached = append(m.detached, id)
	return nil
}

func (m *memoryRepo) DeleteSection(context.Context, string) error {
	return nil
}

type passthroughTx struct{ repo Repository }

func (p passthroughTx) WithinTx(_ context.Context, fn func(Repository) error) error {
	return fn(p.repo)
}

const generalID = "5e0b4a2c-8d1f-4e3a-9b7c-6d5e4f3a2b1c"

func newTestRouter() (http.Handler, *memoryRepo) {
	repo := &memoryRepo{
		categories: []Category{{ID: generalID, Name: "General", Sections: []Section{}}},
		inUse:      map[string]bool{},
	}
	h := NewHandler(NewService(repo, passthroughTx{repo}, nil))

	r := chi.NewRouter()
	noop := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(r, noop)
	r.Route("/admin", h.RegisterAdminRoutes)
	return r, repo
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListCategories(t *testing.T) {
	h, _ := newTestRouter()

	rec := serve(h, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "General", body.Categories[0].Name)
	assert.NotNil(t, body.Categories[0].Sections)
}

func TestHandlerCreateCategoryAndSection(t *testing.T) {
	h, repo := newTestRouter()

	rec := serve(h, http.MethodPost, "/admin/categories", `{"name":"Work"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.categories, 2)

	rec = serve(h, http.MethodPost, "/admin/categories/"+generalID+"/sections",
		`{"name":"Drafts","sortOrder":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, repo.categories[0].Sections[0].SortOrder)

	rec = serve(h, http.MethodPost, "/admin/categories", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDeleteCategoryInUse(t *testing.T) {
	h, repo := newTestRouter()
	repo.inUse[generalID] = true

	rec := serve(h, http.MethodDelete, "/admin/categories/"+generalID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, repo.categories, 1)
}

func TestHandlerDeleteSectionDetachesEntries(t *testing.T) {
	h, repo := newTestRouter()
	id := "8c7b6a5d-4e3f-4a1b-9c8d-7e6f5a4b3c2d"

	rec := serve(h, http.MethodDelete, "/admin/sections/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{id}, repo.detached)

	rec = serve(h, http.MethodDelete, "/admin/sections/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
