package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drawvault-backend/internal/database"
	"drawvault-backend/internal/models"
)

// MetadataService is the metadata index: a Postgres table keyed by
// normalized relative path. It implements vault.Index.
type MetadataService struct {
	db *database.DB
}

func NewMetadataService(db *database.DB) *MetadataService {
	return &MetadataService{db: db}
}

// UpsertOnCreate inserts a record, overwriting any stale row left at
// the same path by an earlier, uncleaned mutation.
func (s *MetadataService) UpsertOnCreate(ctx context.Context, rec *models.Metadata) error {
	query := `
		insert into metadata (file_name, file_path, type, year, company_code, assembly_code, content_type, size)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		on conflict (file_path) do update set
			file_name = excluded.file_name,
			type = excluded.type,
			year = excluded.year,
			company_code = excluded.company_code,
			assembly_code = excluded.assembly_code,
			content_type = excluded.content_type,
			size = excluded.size,
			updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query,
		rec.FileName, rec.FilePath, rec.Type,
		rec.Year, rec.CompanyCode, rec.AssemblyCode,
		rec.ContentType, rec.Size,
	); err != nil {
		return fmt.Errorf("failed to upsert metadata for %q: %w", rec.FilePath, err)
	}
	return nil
}

// RenameRecord moves the record at oldPath to newPath. A missing
// record is a no-op: a physical entry may legitimately exist without
// metadata.
func (s *MetadataService) RenameRecord(ctx context.Context, oldPath, newPath, newName string) error {
	query := `
		update metadata
		set file_name = $3, file_path = $2, updated_at = now()
		where file_path = $1
	`
	if _, err := s.db.ExecContext(ctx, query, oldPath, newPath, newName); err != nil {
		return fmt.Errorf("failed to rename metadata %q: %w", oldPath, err)
	}
	return nil
}

// RenamePrefix rewrites the path prefix of every descendant record
// after a folder rename. Prefixes are compared with left() rather than
// LIKE so paths containing % or _ do not need escaping.
func (s *MetadataService) RenamePrefix(ctx context.Context, oldPrefix, newPrefix string) error {
	query := `
		update metadata
		set file_path = $2 || substr(file_path, char_length($1) + 1), updated_at = now()
		where left(file_path, char_length($1)) = $1
	`
	if _, err := s.db.ExecContext(ctx, query, oldPrefix, newPrefix); err != nil {
		return fmt.Errorf("failed to rename metadata prefix %q: %w", oldPrefix, err)
	}
	return nil
}

func (s *MetadataService) DeleteRecord(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "delete from metadata where file_path = $1", path); err != nil {
		return fmt.Errorf("failed to delete metadata %q: %w", path, err)
	}
	return nil
}

func (s *MetadataService) DeleteByPrefix(ctx context.Context, prefix string) error {
	query := "delete from metadata where left(file_path, char_length($1)) = $1"
	if _, err := s.db.ExecContext(ctx, query, prefix); err != nil {
		return fmt.Errorf("failed to delete metadata prefix %q: %w", prefix, err)
	}
	return nil
}

// FindByPath returns the record at path, or nil when none exists.
func (s *MetadataService) FindByPath(ctx context.Context, path string) (*models.Metadata, error) {
	var rec models.Metadata
	query := "select * from metadata where file_path = $1"
	if err := s.db.GetContext(ctx, &rec, query, path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metadata %q: %w", path, err)
	}
	return &rec, nil
}

// Filter returns records matching every supplied classification list;
// an empty list is a wildcard.
func (s *MetadataService) Filter(ctx context.Context, years, companyCodes, assemblyCodes []string) ([]models.Metadata, error) {
	query := "select * from metadata where 1=1"
	args := []interface{}{}
	if len(years) > 0 {
		query += " and year in (?)"
		args = append(args, years)
	}
	if len(companyCodes) > 0 {
		query += " and company_code in (?)"
		args = append(args, companyCodes)
	}
	if len(assemblyCodes) > 0 {
		query += " and assembly_code in (?)"
		args = append(args, assemblyCodes)
	}

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata filter: %w", err)
	}
	query = s.db.Rebind(query)

	var recs []models.Metadata
	if err := s.db.SelectContext(ctx, &recs, query, inArgs...); err != nil {
		return nil, fmt.Errorf("failed to filter metadata: %w", err)
	}
	return recs, nil
}

// ListPaths returns every indexed path; used by the reindex repair
// pass to prune orphaned rows.
func (s *MetadataService) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := s.db.SelectContext(ctx, &paths, "select file_path from metadata"); err != nil {
		return nil, fmt.Errorf("failed to list metadata paths: %w", err)
	}
	return paths, nil
}
