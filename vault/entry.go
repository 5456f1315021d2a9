package vault

import (
	"sort"
	"strings"
	"time"

	"drawvault-backend/internal/models"
)

// Entry is a single listable item, computed fresh from the filesystem
// on every call. Metadata is attached for files that have an index
// record; an entry without a record is still valid and listable.
type Entry struct {
	Name      string           `json:"name"`
	Type      models.EntryKind `json:"type"`
	Path      string           `json:"path"`
	CreatedAt time.Time        `json:"createdAt"`
	Size      int64            `json:"size"`

	Metadata *models.Metadata `json:"metadata,omitempty"`
}

// SortOptions control result ordering. Folders always sort before
// files; within each group Key is one of "name", "date" or "size"
// (default name) and Order is "asc" or "desc" (default asc).
type SortOptions struct {
	Key   string
	Order string
}

func sortEntries(entries []Entry, opts SortOptions) {
	key := strings.ToLower(opts.Key)
	desc := strings.EqualFold(opts.Order, "desc")

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Type != b.Type {
			return a.Type == models.KindFolder
		}
		c := compareEntries(a, b, key)
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		// Stable tie-break so orderings are deterministic.
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

func compareEntries(a, b Entry, key string) int {
	switch key {
	case "date":
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	case "size":
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}
