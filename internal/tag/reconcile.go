// AngelaMos | 2026
// reconcile.go

package tag

import (
	"context"
	"fmt"
	"strings"
)

type Mode int

const (
	// ModeAttach adds associations to a freshly created entry.
	ModeAttach Mode = iota
	// ModeReplace drops every existing association first.
	ModeReplace
)

// NormalizeNames trims names, drops blanks and collapses exact duplicates,
// keeping first-seen order.
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// Reconcile makes the entry's associations equal to the normalized names,
// creating missing tags for userID. Tag rows are never deleted.
func Reconcile(
	ctx context.Context,
	repo Repository,
	userID, entryID string,
	names []string,
	mode Mode,
) ([]Ref, error) {
	if mode == ModeReplace {
		if err := repo.DetachAll(ctx, entryID); err != nil {
			return nil, fmt.Errorf("reconcile tags: %w", err)
		}
	}

	normalized := NormalizeNames(names)
	refs := make([]Ref, 0, len(normalized))

	for _, name := range normalized {
		id, err := repo.Upsert(ctx, userID, name)
		if err != nil {
			return nil, fmt.Errorf("reconcile tags: %w", err)
		}

		if err := repo.Attach(ctx, entryID, id); err != nil {
			return nil, fmt.Errorf("reconcile tags: %w", err)
		}

		refs = append(refs, Ref{ID: id, Name: name})
	}

	return refs, nil
}

// MatchesName reports whether any ref carries name, ignoring case.
func MatchesName(refs []Ref, name string) bool {
	for _, r := range refs {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}
