package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"

	"drawvault-backend/internal/models"
)

// ReindexResult reports what a repair pass did.
type ReindexResult struct {
	Indexed int `json:"indexed"`
	Pruned  int `json:"pruned"`
}

// Reindex repairs the metadata index against the physical tree: every
// entry on disk gets an upserted record and every record whose path no
// longer exists is pruned. Individual failures are collected and the
// pass keeps going, so one bad path does not abort the repair.
func (s *Store) Reindex(ctx context.Context) (ReindexResult, error) {
	var result ReindexResult
	var errs *multierror.Error

	walkErr := filepath.WalkDir(s.root, func(phys string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		if phys == s.root || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relFS, err := filepath.Rel(s.root, phys)
		if err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		rel := filepath.ToSlash(relFS)

		rec := &models.Metadata{
			FileName: d.Name(),
			FilePath: rel,
			Type:     models.KindFile,
		}
		if d.IsDir() {
			rec.Type = models.KindFolder
			year, company, assembly := classifyPath(rel)
			rec.Year = nullable(year)
			rec.CompanyCode = nullable(company)
			rec.AssemblyCode = nullable(assembly)
		} else {
			if info, err := d.Info(); err == nil {
				rec.Size = info.Size()
			}
			if mt, err := mimetype.DetectFile(phys); err == nil {
				rec.ContentType = nullable(mt.String())
			}
			// Files take their classification from the parent folder.
			if i := strings.LastIndexByte(rel, '/'); i >= 0 {
				year, company, assembly := classifyPath(rel[:i])
				rec.Year = nullable(year)
				rec.CompanyCode = nullable(company)
				rec.AssemblyCode = nullable(assembly)
			}
		}

		if err := s.idx.UpsertOnCreate(ctx, rec); err != nil {
			errs = multierror.Append(errs, err)
			return nil
		}
		result.Indexed++
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}

	paths, err := s.idx.ListPaths(ctx)
	if err != nil {
		return result, multierror.Append(errs, err).ErrorOrNil()
	}
	for _, p := range paths {
		if _, err := os.Lstat(s.physPath(p)); err == nil {
			continue
		}
		if err := s.idx.DeleteRecord(ctx, p); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		result.Pruned++
	}

	return result, errs.ErrorOrNil()
}
