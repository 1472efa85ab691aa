// AngelaMos | 2026
// reconcile_test.go

package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	tags      map[string]string
	links     map[string]map[string]struct{}
	upsertErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		tags:  make(map[string]string),
		links: make(map[string]map[string]struct{}),
	}
}

func (m *memoryRepo) Upsert(_ context.Context, userID, name string) (string, error) {
	if m.upsertErr != nil {
		return "", m.upsertErr
	}
	key := userID + "\x00" + name
	if id, ok := m.tags[key]; ok {
		return id, nil
	}
	id := name + "-id"
	m.tags[key] = id
	return id, nil
}

func (m *memoryRepo) Attach(_ context.Context, entryID, tagID string) error {
	if m.links[entryID] == nil {
		m.links[entryID] = make(map[string]struct{})
	}
	m.links[entryID][tagID] = struct{}{}
	return nil
}

func (m *memoryRepo) DetachAll(_ context.Context, entryID string) error {
	delete(m.links, entryID)
	return nil
}

func (m *memoryRepo) ForEntries(context.Context, []string) (map[string][]Ref, error) {
	return nil, nil
}

func TestNormalizeNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"blanks dropped", []string{"", "  ", "\t"}, []string{}},
		{"trimmed and deduped", []string{" a", "a ", "b"}, []string{"a", "b"}},
		{"case preserved", []string{"Go", "go"}, []string{"Go", "go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNames(tt.in))
		})
	}
}

func TestReconcileAttachReusesExistingTags(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()

	_, err := Reconcile(ctx, repo, "u1", "e1", []string{"go"}, ModeAttach)
	require.NoError(t, err)

	refs, err := Reconcile(ctx, repo, "u1", "e2", []string{"go", "sql", "go"}, ModeAttach)
	require.NoError(t, err)

	assert.Equal(t, []Ref{{ID: "go-id", Name: "go"}, {ID: "sql-id", Name: "sql"}}, refs)
	assert.Len(t, repo.tags, 2)
	assert.Len(t, repo.links["e1"], 1)
	assert.Len(t, repo.links["e2"], 2)
}

func TestReconcileReplace(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()

	_, err := Reconcile(ctx, repo, "u1", "e1", []string{"a", "b"}, ModeAttach)
	require.NoError(t, err)

	_, err = Reconcile(ctx, repo, "u1", "e1", []string{"c"}, ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"c-id": {}}, repo.links["e1"])

	_, err = Reconcile(ctx, repo, "u1", "e1", nil, ModeReplace)
	require.NoError(t, err)
	assert.Empty(t, repo.links["e1"])
	assert.Len(t, repo.tags, 3)
}

func TestReconcileTagsAreUserScoped(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()

	_, err := Reconcile(ctx, repo, "u1", "e1", []string{"go"}, ModeAttach)
	require.NoError(t, err)
	_, err = Reconcile(ctx, repo, "u2", "e2", []string{"go"}, ModeAttach)
	require.NoError(t, err)

	assert.Len(t, repo.tags, 2)
}

func TestReconcileError(t *testing.T) {
	repo := newMemoryRepo()
	repo.upsertErr = errors.New("db down")

	_, err := Reconcile(context.Background(), repo, "u1", "e1", []string{"a"}, ModeAttach)
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.upsertErr)
}

func TestMatchesName(t *testing.T) {
	refs := []Ref{{Name: "GoLang"}, {Name: "sql"}}

	assert.True(t, MatchesName(refs, "golang"))
	assert.True(t, MatchesName(refs, "SQL"))
	assert.False(t, MatchesName(refs, "go"))
	assert.False(t, MatchesName(nil, "go"))
}
