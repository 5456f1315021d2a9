package dto

import "drawvault-backend/internal/models"

type AddCodeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type EditCodeRequest struct {
	OldCode string `json:"oldCode"`
	NewCode string `json:"newCode"`
	NewName string `json:"newName"`
}

type DeleteCodeRequest struct {
	Code string `json:"code"`
}

type CodeListResponse struct {
	Total int                    `json:"total"`
	Codes []models.ReferenceCode `json:"codes"`
}

type ReferenceDataResponse struct {
	Companies  []models.ReferenceCode `json:"companies"`
	Assemblies []models.ReferenceCode `json:"assemblies"`
}
