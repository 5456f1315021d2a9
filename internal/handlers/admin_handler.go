package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"drawvault-backend/internal/database"
	"drawvault-backend/internal/dto"
	"drawvault-backend/internal/services"
	"drawvault-backend/utils/response"
)

// AdminHandler manages the reference-code vocabulary (company and
// assembly codes) used by the search filters.
type AdminHandler struct {
	service *services.RefCodeService
	logger  *zap.Logger
}

func NewAdminHandler(db *database.DB, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: services.NewRefCodeService(db),
		logger:  logger,
	}
}

func (h *AdminHandler) AddCompany(w http.ResponseWriter, r *http.Request) {
	h.addCode(w, r, h.service.AddCompany, "Company")
}

func (h *AdminHandler) AddAssembly(w http.ResponseWriter, r *http.Request) {
	h.addCode(w, r, h.service.AddAssembly, "Assembly")
}

func (h *AdminHandler) EditCompany(w http.ResponseWriter, r *http.Request) {
	h.editCode(w, r, h.service.EditCompany, "Company")
}

func (h *AdminHandler) EditAssembly(w http.ResponseWriter, r *http.Request) {
	h.editCode(w, r, h.service.EditAssembly, "Assembly")
}

func (h *AdminHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	h.deleteCode(w, r, h.service.DeleteCompany, "Company")
}

func (h *AdminHandler) DeleteAssembly(w http.ResponseWriter, r *http.Request) {
	h.deleteCode(w, r, h.service.DeleteAssembly, "Assembly")
}

func (h *AdminHandler) CompanyCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.serviceError(w, err, "Error fetching company codes.")
		return
	}
	response.JSON(w, http.StatusOK, dto.CodeListResponse{Total: len(codes), Codes: codes})
}

func (h *AdminHandler) AssemblyCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListAssemblies(r.Context())
	if err != nil {
		h.serviceError(w, err, "Error fetching assembly codes.")
		return
	}
	response.JSON(w, http.StatusOK, dto.CodeListResponse{Total: len(codes), Codes: codes})
}

// ReferenceData returns both vocabularies in one call for the filter
// dropdowns.
func (h *AdminHandler) ReferenceData(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.serviceError(w, err, "Error fetching reference data.")
		return
	}
	assemblies, err := h.service.ListAssemblies(r.Context())
	if err != nil {
		h.serviceError(w, err, "Error fetching reference data.")
		return
	}
	response.JSON(w, http.StatusOK, dto.ReferenceDataResponse{
		Companies:  companies,
		Assemblies: assemblies,
	})
}

func (h *AdminHandler) addCode(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, code, name string) error, kind string) {
	var req dto.AddCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Code == "" || req.Name == "" {
		response.BadRequest(w, "Code and name are required!")
		return
	}

	if err := add(r.Context(), req.Code, req.Name); err != nil {
		if errors.Is(err, services.ErrDuplicateCode) {
			response.Error(w, http.StatusConflict, kind+" code already exists!")
			return
		}
		h.serviceError(w, err, "Error adding "+kind+".")
		return
	}
	response.Success(w, nil, kind+" added successfully!")
}

func (h *AdminHandler) editCode(w http.ResponseWriter, r *http.Request, edit func(ctx context.Context, oldCode, newCode, newName string) error, kind string) {
	var req dto.EditCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.OldCode == "" || req.NewCode == "" || req.NewName == "" {
		response.BadRequest(w, "Old code, new code, and new name are required!")
		return
	}

	if err := edit(r.Context(), req.OldCode, req.NewCode, req.NewName); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			response.NotFound(w, kind+" not found!")
		case errors.Is(err, services.ErrDuplicateCode):
			response.Error(w, http.StatusConflict, "New "+kind+" code already exists!")
		default:
			h.serviceError(w, err, "Error editing "+kind+".")
		}
		return
	}
	response.Success(w, nil, kind+" updated successfully!")
}

func (h *AdminHandler) deleteCode(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, code string) error, kind string) {
	var req dto.DeleteCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Code == "" {
		response.BadRequest(w, "Code is required!")
		return
	}

	if err := del(r.Context(), req.Code); err != nil {
		if errors.Is(err, services.ErrCodeNotFound) {
			response.NotFound(w, kind+" not found!")
			return
		}
		h.serviceError(w, err, "Error deleting "+kind+".")
		return
	}
	response.Success(w, nil, kind+" deleted successfully!")
}

func (h *AdminHandler) serviceError(w http.ResponseWriter, err error, message string) {
	h.logger.Error("reference code operation failed", zap.Error(err))
	response.Error(w, http.StatusInternalServerError, message)
}
