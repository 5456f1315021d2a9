package models

import "time"

// ReferenceCode is a company or assembly code. Codes are the filter
// vocabulary for search and the building blocks of top-level folder
// names (year-companyCode-assemblyCode).
type ReferenceCode struct {
	ID   int64  `db:"id" json:"-"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
