package vault

import (
	"strings"
	"time"

	"drawvault-backend/internal/models"
)

// Filters narrow listing and search results. Each classification list
// holds the comma-separated values the caller supplied; an empty list
// is a wildcard. Values within one list are OR-ed, the lists are
// AND-ed against each other.
type Filters struct {
	Query         string
	Years         []string
	CompanyCodes  []string
	AssemblyCodes []string
	CreatedFrom   time.Time
	CreatedTo     time.Time
	Type          string
}

func (f Filters) hasClassification() bool {
	return len(f.Years) > 0 || len(f.CompanyCodes) > 0 || len(f.AssemblyCodes) > 0
}

// matchEntry applies the full filter set to a single entry. Folder
// names encode year-companyCode-assemblyCode, so classification
// filters match folders by substring containment on the name. Files
// match classification filters against their metadata record; a file
// without a record fails any non-wildcard classification filter but
// may still match a name-only query.
func (f Filters) matchEntry(e Entry) bool {
	if f.Type != "" && string(e.Type) != f.Type {
		return false
	}
	if !f.CreatedFrom.IsZero() && e.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedTo.IsZero() && e.CreatedAt.After(f.CreatedTo) {
		return false
	}

	if e.Type == models.KindFolder {
		return f.matchFolderName(e.Name)
	}

	if !f.matchQueryFile(e) {
		return false
	}
	if !f.hasClassification() {
		return true
	}
	if e.Metadata == nil {
		return false
	}
	return matchField(f.Years, e.Metadata.Year) &&
		matchField(f.CompanyCodes, e.Metadata.CompanyCode) &&
		matchField(f.AssemblyCodes, e.Metadata.AssemblyCode)
}

func (f Filters) matchFolderName(name string) bool {
	if !f.matchQueryName(name) {
		return false
	}
	return containsAny(name, f.Years) &&
		containsAny(name, f.CompanyCodes) &&
		containsAny(name, f.AssemblyCodes)
}

func (f Filters) matchQueryName(name string) bool {
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Query))
}

func (f Filters) matchQueryFile(e Entry) bool {
	if f.matchQueryName(e.Name) {
		return true
	}
	return e.Metadata != nil && f.matchQueryName(e.Metadata.FileName)
}

// containsAny is a wildcard-aware substring test: an empty value list
// always matches.
func containsAny(name string, values []string) bool {
	if len(values) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, v := range values {
		if strings.Contains(lower, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// matchField is a wildcard-aware equality test against a nullable
// metadata field.
func matchField(values []string, field *string) bool {
	if len(values) == 0 {
		return true
	}
	if field == nil {
		return false
	}
	for _, v := range values {
		if strings.EqualFold(v, *field) {
			return true
		}
	}
	return false
}
