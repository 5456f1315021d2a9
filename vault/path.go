package vault

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when a logical path or the named entry
	// under it does not exist in the physical tree.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidPath is returned for malformed paths and for paths that
	// try to escape the storage root.
	ErrInvalidPath = errors.New("invalid path")
)

// NormalizePath converts a client-supplied root-relative path into the
// canonical forward-slash form used as the metadata key. The empty
// string is the storage root. Paths that resolve outside the root are
// rejected.
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return "", nil
	}

	clean := path.Clean(p)
	if clean == "." {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

// ValidName reports whether name is usable as a single path segment.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// joinRel joins normalized relative paths, skipping empty parts.
func joinRel(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return path.Join(nonEmpty...)
}

// physPath maps a normalized relative path to its location on disk.
func (s *Store) physPath(rel string) string {
	if rel == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// classifyPath derives the classification fields from the top-level
// folder segment of rel, which encodes year-companyCode-assemblyCode.
// Segments that do not follow the convention yield empty fields.
func classifyPath(rel string) (year, companyCode, assemblyCode string) {
	top := rel
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		top = rel[:i]
	}
	parts := strings.SplitN(top, "-", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", ""
	}
	return parts[0], parts[1], parts[2]
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
