package vault

import (
	"context"
	"os"

	"go.uber.org/zap"

	"drawvault-backend/internal/models"
)

// Recursion guard for degenerate trees. Symlinks are never followed,
// so a loop cannot recurse forever, but a genuinely deep tree is still
// cut off here.
const maxSearchDepth = 64

// Search walks the tree under rel and returns every entry matching the
// filters, from all depths, as one flat list. Folders match on their
// name (which encodes year-companyCode-assemblyCode) and are always
// descended into regardless of whether they matched themselves; files
// match on name plus their metadata record. An unreadable subdirectory
// is logged and skipped. Cancellation and deadline come from ctx.
func (s *Store) Search(ctx context.Context, rel string, f Filters, sortOpts SortOptions) ([]Entry, error) {
	rel, err := NormalizePath(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(s.physPath(rel))
	if err != nil || !info.IsDir() {
		return nil, ErrNotFound
	}

	results := make([]Entry, 0)
	if err := s.searchDir(ctx, rel, f, 0, &results); err != nil {
		return nil, err
	}

	sortEntries(results, sortOpts)
	return results, nil
}

func (s *Store) searchDir(ctx context.Context, rel string, f Filters, depth int, out *[]Entry) error {
	if depth > maxSearchDepth {
		s.logger.Warn("search depth limit reached, not descending further",
			zap.String("path", rel))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dirents, err := os.ReadDir(s.physPath(rel))
	if err != nil {
		s.logger.Warn("skipping unreadable directory",
			zap.String("path", rel),
			zap.Error(err))
		return nil
	}

	for _, d := range dirents {
		e, ok := s.newEntry(ctx, rel, d)
		if !ok {
			continue
		}
		if f.matchEntry(e) {
			*out = append(*out, e)
		}
		if e.Type == models.KindFolder {
			if err := s.searchDir(ctx, e.Path, f, depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}
