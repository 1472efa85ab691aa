// AngelaMos | 2026
// fakes_test.go

package entry

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelamos/promptvault/internal/core"
	"github.com/angelamos/promptvault/internal/tag"
)

type fakeEntries struct {
	mu sync.Mutex

	rows      map[string]*Entry
	listOut   []Entry
	listErr   error
	lastQuery QueryParams
	listCalls int
	createErr error
	patches   []Patch
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{rows: make(map[string]*Entry)}
}

func (f *fakeEntries) Create(_ context.Context, e *Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEntries) owned(userID, id string) (*Entry, error) {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("fake: %w", core.ErrNotFound)
	}
	return e, nil
}

func (f *fakeEntries) Update(_ context.Context, userID, id string, p Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.owned(userID, id)
	if err != nil {
		return err
	}
	if p.PromptText != nil {
		e.PromptText = *p.PromptText
	}
	if p.Title != nil {
		e.Title = p.Title
	}
	f.patches = append(f.patches, p)
	return nil
}

func (f *fakeEntries) SoftDelete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.owned(userID, id)
	return err
}

func (f *fakeEntries) Restore(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.owned(userID, id)
	return err
}

func (f *fakeEntries) HardDelete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeEntries) List(
	_ context.Context,
	_ string,
	params QueryParams,
) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastQuery = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]Entry(nil), f.listOut...)
	if params.Take > 0 && len(out) > params.Take {
		out = out[:params.Take]
	}
	return out, nil
}

func (f *fakeEntries) Counts(context.Context) (Counts, error) {
	return Counts{Live: int64(len(f.rows))}, nil
}

type fakeTags struct {
	mu sync.Mutex

	ids      map[string]string
	attached map[string][]string
	detached []string
	upserts  []string
	byEntry  map[string][]tag.Ref
}

func newFakeTags() *fakeTags {
	return &fakeTags{
		ids:      make(map[string]string),
		attached: make(map[string][]string),
		byEntry:  make(map[string][]tag.Ref),
	}
}

func (f *fakeTags) Upsert(_ context.Context, userID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, name)
	key := userID + "/" + name
	if id, ok := f.ids[key]; ok {
		return id, nil
	}
	id := fmt.Sprintf("tag-%d", len(f.ids)+1)
	f.ids[key] = id
	return id, nil
}

func (f *fakeTags) Attach(_ context.Context, entryID, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached[entryID] = append(f.attached[entryID], tagID)
	return nil
}

func (f *fakeTags) DetachAll(_ context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = append(f.detached, entryID)
	delete(f.attached, entryID)
	return nil
}

func (f *fakeTags) ForEntries(
	_ context.Context,
	entryIDs []string,
) (map[string][]tag.Ref, error) {
	out := make(map[string][]tag.Ref, len(entryIDs))
	for _, id := range entryIDs {
		if refs, ok := f.byEntry[id]; ok {
			out[id] = refs
		}
	}
	return out, nil
}

type fakeTx struct {
	entries Repository
	tags    tag.Repository
	calls   int
}

func (f *fakeTx) WithinTx(
	_ context.Context,
	fn func(entries Repository, tags tag.Repository) error,
) error {
	f.calls++
	return fn(f.entries, f.tags)
}

func newTestService() (*Service, *fakeEntries, *fakeTags, *fakeTx) {
	entries := newFakeEntries()
	tags := newFakeTags()
	tx := &fakeTx{entries: entries, tags: tags}
	return NewService(entries, tags, tx, nil), entries, tags, tx
}
