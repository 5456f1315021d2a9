package models

import "time"

type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// Metadata is the side-table row describing a stored entry. file_path is
// the normalized root-relative path and the unique join key back to the
// physical tree; the physical tree stays the source of truth for
// existence.
type Metadata struct {
	ID int64 `db:"id" json:"-"`

	FileName     string    `db:"file_name" json:"fileName"`
	FilePath     string    `db:"file_path" json:"filePath"`
	Type         EntryKind `db:"type" json:"type"`
	Year         *string   `db:"year" json:"year,omitempty"`
	CompanyCode  *string   `db:"company_code" json:"companyCode,omitempty"`
	AssemblyCode *string   `db:"assembly_code" json:"assemblyCode,omitempty"`
	ContentType  *string   `db:"content_type" json:"contentType,omitempty"`
	Size         int64     `db:"size" json:"size"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
