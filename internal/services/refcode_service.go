package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"drawvault-backend/internal/database"
	"drawvault-backend/internal/models"
)

var (
	ErrDuplicateCode = errors.New("code already exists")
	ErrCodeNotFound  = errors.New("code not found")
)

const uniqueViolation = pq.ErrorCode("23505")

// RefCodeService manages the company and assembly reference codes that
// feed the search filters and the naming of top-level folders.
type RefCodeService struct {
	db *database.DB
}

func NewRefCodeService(db *database.DB) *RefCodeService {
	return &RefCodeService{db: db}
}

func (s *RefCodeService) AddCompany(ctx context.Context, code, name string) error {
	return s.add(ctx, "companies", code, name)
}

func (s *RefCodeService) AddAssembly(ctx context.Context, code, name string) error {
	return s.add(ctx, "assemblies", code, name)
}

func (s *RefCodeService) EditCompany(ctx context.Context, oldCode, newCode, newName string) error {
	return s.edit(ctx, "companies", oldCode, newCode, newName)
}

func (s *RefCodeService) EditAssembly(ctx context.Context, oldCode, newCode, newName string) error {
	return s.edit(ctx, "assemblies", oldCode, newCode, newName)
}

func (s *RefCodeService) DeleteCompany(ctx context.Context, code string) error {
	return s.delete(ctx, "companies", code)
}

func (s *RefCodeService) DeleteAssembly(ctx context.Context, code string) error {
	return s.delete(ctx, "assemblies", code)
}

func (s *RefCodeService) ListCompanies(ctx context.Context) ([]models.ReferenceCode, error) {
	return s.list(ctx, "companies")
}

func (s *RefCodeService) ListAssemblies(ctx context.Context) ([]models.ReferenceCode, error) {
	return s.list(ctx, "assemblies")
}

// table below is always one of the two fixed names, never user input.

func (s *RefCodeService) add(ctx context.Context, table, code, name string) error {
	query := fmt.Sprintf("insert into %s (code, name) values ($1, $2)", table)
	if _, err := s.db.ExecContext(ctx, query, code, name); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to add %s code: %w", table, err)
	}
	return nil
}

func (s *RefCodeService) edit(ctx context.Context, table, oldCode, newCode, newName string) error {
	var exists bool
	checkQuery := fmt.Sprintf("select exists (select 1 from %s where code = $1)", table)
	if err := s.db.GetContext(ctx, &exists, checkQuery, oldCode); err != nil {
		return fmt.Errorf("failed to look up %s code: %w", table, err)
	}
	if !exists {
		return ErrCodeNotFound
	}

	query := fmt.Sprintf("update %s set code = $1, name = $2, updated_at = now() where code = $3", table)
	if _, err := s.db.ExecContext(ctx, query, newCode, newName, oldCode); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to edit %s code: %w", table, err)
	}
	return nil
}

func (s *RefCodeService) delete(ctx context.Context, table, code string) error {
	query := fmt.Sprintf("delete from %s where code = $1", table)
	res, err := s.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to delete %s code: %w", table, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (s *RefCodeService) list(ctx context.Context, table string) ([]models.ReferenceCode, error) {
	codes := []models.ReferenceCode{}
	query := fmt.Sprintf("select * from %s order by code", table)
	if err := s.db.SelectContext(ctx, &codes, query); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list %s codes: %w", table, err)
	}
	return codes, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
