package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"drawvault-backend/internal/models"
)

// Subfolders created automatically under every top-level folder.
var topLevelSubfolders = []string{"2D-Drawing", "3D-Model"}

// Index is the metadata side table the store keeps in sync with the
// physical tree. The tree is the source of truth for existence; the
// index only holds descriptive attributes, so lookups may return nil
// for entries that exist on disk.
type Index interface {
	UpsertOnCreate(ctx context.Context, rec *models.Metadata) error
	RenameRecord(ctx context.Context, oldPath, newPath, newName string) error
	RenamePrefix(ctx context.Context, oldPrefix, newPrefix string) error
	DeleteRecord(ctx context.Context, path string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	FindByPath(ctx context.Context, path string) (*models.Metadata, error)
	ListPaths(ctx context.Context) ([]string, error)
}

// Store owns the physical directory tree under a single storage root
// and reconciles the metadata index after every mutation: physical
// operation first, index second.
type Store struct {
	root   string
	idx    Index
	logger *zap.Logger
	locks  *pathLocks
}

func New(root string, idx Index, logger *zap.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{
		root:   abs,
		idx:    idx,
		logger: logger,
		locks:  newPathLocks(),
	}, nil
}

// List enumerates the direct children of rel, attaches metadata to
// files that have an index record, applies filters and sorts the
// result (folders first).
func (s *Store) List(ctx context.Context, rel string, f Filters, sortOpts SortOptions) ([]Entry, error) {
	rel, err := NormalizePath(rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(s.physPath(rel))
	if err != nil || !info.IsDir() {
		return nil, ErrNotFound
	}

	dirents, err := os.ReadDir(s.physPath(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", rel, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		e, ok := s.newEntry(ctx, rel, d)
		if !ok {
			continue
		}
		if f.matchEntry(e) {
			entries = append(entries, e)
		}
	}

	sortEntries(entries, sortOpts)
	return entries, nil
}

// CreateFolder creates requestedName under parentRel, resolving name
// collisions by appending -1, -2, ... until a free name is found. It
// never overwrites. A top-level folder additionally gets the two fixed
// subfolders; if one of them cannot be created the new folder is
// rolled back and the whole call fails.
func (s *Store) CreateFolder(ctx context.Context, parentRel, requestedName string) (string, error) {
	if !ValidName(requestedName) {
		return "", ErrInvalidPath
	}
	parentRel, err := NormalizePath(parentRel)
	if err != nil {
		return "", err
	}

	s.locks.lock(parentRel)
	defer s.locks.unlock(parentRel)

	if err := os.MkdirAll(s.physPath(parentRel), 0755); err != nil {
		return "", fmt.Errorf("failed to create parent directory: %w", err)
	}

	finalName := requestedName
	for i := 1; ; i++ {
		if _, err := os.Stat(s.physPath(joinRel(parentRel, finalName))); os.IsNotExist(err) {
			break
		}
		finalName = fmt.Sprintf("%s-%d", requestedName, i)
	}

	finalRel := joinRel(parentRel, finalName)
	if err := os.Mkdir(s.physPath(finalRel), 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	if parentRel == "" {
		for _, sub := range topLevelSubfolders {
			if err := os.Mkdir(filepath.Join(s.physPath(finalRel), sub), 0755); err != nil {
				err = fmt.Errorf("failed to create subfolder %s: %w", sub, err)
				if rbErr := os.RemoveAll(s.physPath(finalRel)); rbErr != nil {
					err = multierror.Append(err, fmt.Errorf("rollback failed: %w", rbErr))
				}
				return "", err
			}
		}
	}

	year, company, assembly := classifyPath(finalRel)
	rec := &models.Metadata{
		FileName:     finalName,
		FilePath:     finalRel,
		Type:         models.KindFolder,
		Year:         nullable(year),
		CompanyCode:  nullable(company),
		AssemblyCode: nullable(assembly),
	}
	if err := s.idx.UpsertOnCreate(ctx, rec); err != nil {
		return "", fmt.Errorf("folder created but index update failed: %w", err)
	}
	return finalName, nil
}

// Rename renames rel/oldName to rel/newName and rewrites the matching
// index record, if one exists. Renaming a folder also re-prefixes the
// records of all its descendants.
func (s *Store) Rename(ctx context.Context, rel, oldName, newName string) error {
	if !ValidName(oldName) || !ValidName(newName) {
		return ErrInvalidPath
	}
	rel, err := NormalizePath(rel)
	if err != nil {
		return err
	}

	oldRel := joinRel(rel, oldName)
	newRel := joinRel(rel, newName)

	s.locks.lock(oldRel)
	defer s.locks.unlock(oldRel)

	info, err := os.Stat(s.physPath(oldRel))
	if err != nil {
		return ErrNotFound
	}

	if err := os.Rename(s.physPath(oldRel), s.physPath(newRel)); err != nil {
		return fmt.Errorf("failed to rename %q: %w", oldRel, err)
	}

	if err := s.idx.RenameRecord(ctx, oldRel, newRel, newName); err != nil {
		return fmt.Errorf("entry renamed but index update failed: %w", err)
	}
	if info.IsDir() {
		if err := s.idx.RenamePrefix(ctx, oldRel+"/", newRel+"/"); err != nil {
			return fmt.Errorf("folder renamed but descendant index update failed: %w", err)
		}
	}
	return nil
}

// Delete removes rel/name from disk (recursively for folders) and
// deletes the matching index record plus, for folders, every
// descendant record by path prefix.
func (s *Store) Delete(ctx context.Context, rel, name string) error {
	if !ValidName(name) {
		return ErrInvalidPath
	}
	rel, err := NormalizePath(rel)
	if err != nil {
		return err
	}

	target := joinRel(rel, name)

	s.locks.lock(target)
	defer s.locks.unlock(target)

	info, err := os.Stat(s.physPath(target))
	if err != nil {
		return ErrNotFound
	}

	if err := os.RemoveAll(s.physPath(target)); err != nil {
		return fmt.Errorf("failed to delete %q: %w", target, err)
	}

	if err := s.idx.DeleteRecord(ctx, target); err != nil {
		return fmt.Errorf("entry deleted but index update failed: %w", err)
	}
	if info.IsDir() {
		if err := s.idx.DeleteByPrefix(ctx, target+"/"); err != nil {
			return fmt.Errorf("folder deleted but descendant index cleanup failed: %w", err)
		}
	}
	return nil
}

// Upload stores the incoming content under rel using originalName
// verbatim. An existing file with the same name is overwritten (last
// write wins). Content is written to a temp file first so a failed
// upload never leaves a partial file at the final name.
func (s *Store) Upload(ctx context.Context, rel string, r io.Reader, originalName string) (string, error) {
	if !ValidName(originalName) {
		return "", ErrInvalidPath
	}
	rel, err := NormalizePath(rel)
	if err != nil {
		return "", err
	}

	targetRel := joinRel(rel, originalName)

	s.locks.lock(targetRel)
	defer s.locks.unlock(targetRel)

	dir := s.physPath(rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".upload-%s", uuid.New()))
	defer os.Remove(tmpPath)

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	var contentType string
	if mt, err := mimetype.DetectFile(tmpPath); err == nil {
		contentType = mt.String()
	}

	if err := os.Rename(tmpPath, s.physPath(targetRel)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	year, company, assembly := classifyPath(rel)
	rec := &models.Metadata{
		FileName:     originalName,
		FilePath:     targetRel,
		Type:         models.KindFile,
		Year:         nullable(year),
		CompanyCode:  nullable(company),
		AssemblyCode: nullable(assembly),
		ContentType:  nullable(contentType),
		Size:         size,
	}
	if err := s.idx.UpsertOnCreate(ctx, rec); err != nil {
		return "", fmt.Errorf("file stored but index update failed: %w", err)
	}
	return originalName, nil
}

// newEntry builds an Entry for one directory child. Symlinks and
// children whose stat fails are skipped.
func (s *Store) newEntry(ctx context.Context, parentRel string, d os.DirEntry) (Entry, bool) {
	if d.Type()&os.ModeSymlink != 0 {
		return Entry{}, false
	}
	info, err := d.Info()
	if err != nil {
		return Entry{}, false
	}

	rel := joinRel(parentRel, d.Name())
	e := Entry{
		Name:      d.Name(),
		Type:      models.KindFile,
		Path:      rel,
		CreatedAt: info.ModTime().UTC(),
	}
	if d.IsDir() {
		e.Type = models.KindFolder
		return e, true
	}

	e.Size = info.Size()
	meta, err := s.idx.FindByPath(ctx, rel)
	if err != nil {
		s.logger.Warn("metadata lookup failed",
			zap.String("path", rel),
			zap.Error(err))
	}
	e.Metadata = meta
	return e, true
}
