package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"drawvault-backend/internal/config"
	"drawvault-backend/internal/dto"
	"drawvault-backend/utils/response"
	"drawvault-backend/vault"
)

type FolderHandler struct {
	store  *vault.Store
	cfg    *config.Config
	logger *zap.Logger
}

func NewFolderHandler(store *vault.Store, cfg *config.Config, logger *zap.Logger) *FolderHandler {
	return &FolderHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// List returns the direct children of ?path= as a JSON array, each
// entry carrying its metadata record when one exists.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, sortOpts, err := searchParams(r.URL.Query())
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	entries, err := h.store.List(r.Context(), r.URL.Query().Get("path"), filters, sortOpts)
	if err != nil {
		h.storeError(w, err, "Directory not found.", "Error reading directory.")
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.FolderName == "" {
		response.BadRequest(w, "Folder name is required!")
		return
	}

	finalName, err := h.store.CreateFolder(r.Context(), req.Path, req.FolderName)
	if err != nil {
		h.storeError(w, err, "Directory not found.", "Error creating folder.")
		return
	}

	response.Success(w, dto.CreateFolderResponse{FolderName: finalName}, "Folder created successfully!")
}

func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req dto.RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.OldName == "" || req.NewName == "" {
		response.BadRequest(w, "Old name and new name are required!")
		return
	}

	if err := h.store.Rename(r.Context(), req.Path, req.OldName, req.NewName); err != nil {
		h.storeError(w, err, "Item not found.", "Error renaming item.")
		return
	}

	response.Success(w, nil, "Renamed successfully!")
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "Name is required!")
		return
	}

	if err := h.store.Delete(r.Context(), req.Path, req.Name); err != nil {
		h.storeError(w, err, "Item not found!", "Error deleting item.")
		return
	}

	response.Success(w, nil, "Deleted successfully!")
}

// Upload stores a multipart file (field "file") under the directory
// given by the form field "path". The target directory is an explicit
// parameter of every upload; the server keeps no notion of a current
// folder between requests.
func (h *FolderHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(32 * 1024 * 1024); err != nil {
		response.BadRequest(w, fmt.Sprintf("Failed to parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file uploaded.")
		return
	}
	defer file.Close()

	path := r.FormValue("path")
	storedName, err := h.store.Upload(r.Context(), path, file, header.Filename)
	if err != nil {
		h.storeError(w, err, "Directory not found.", "Error saving file.")
		return
	}

	normPath, _ := vault.NormalizePath(path)
	response.Success(w, dto.UploadResponse{
		FileName:    storedName,
		CurrentPath: normPath,
	}, "File uploaded and metadata saved successfully!")
}

// Search walks the whole tree from the root and returns every entry
// matching the query and the classification filters, as a flat array.
func (h *FolderHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters, sortOpts, err := searchParams(r.URL.Query())
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if filters.Query == "" {
		response.BadRequest(w, "Search query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.SearchTimeout)
	defer cancel()

	results, err := h.store.Search(ctx, r.URL.Query().Get("path"), filters, sortOpts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			response.Error(w, http.StatusGatewayTimeout, "Search timed out.")
			return
		}
		h.storeError(w, err, "Directory not found.", "Error searching files.")
		return
	}

	response.JSON(w, http.StatusOK, results)
}

// Reindex repairs the metadata index against the physical tree.
func (h *FolderHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.Reindex(r.Context())
	if err != nil {
		h.logger.Error("reindex finished with errors", zap.Error(err))
		response.JSON(w, http.StatusInternalServerError, response.SuccessResponse{
			Success: false,
			Data:    result,
			Message: "Reindex finished with errors.",
		})
		return
	}

	response.Success(w, result, "Reindex completed successfully!")
}

// storeError maps domain errors onto HTTP statuses: ErrNotFound 404,
// ErrInvalidPath 400, anything else 500 with a log line.
func (h *FolderHandler) storeError(w http.ResponseWriter, err error, notFoundMsg, internalMsg string) {
	switch {
	case errors.Is(err, vault.ErrNotFound):
		response.NotFound(w, notFoundMsg)
	case errors.Is(err, vault.ErrInvalidPath):
		response.BadRequest(w, "Invalid path.")
	default:
		h.logger.Error("store operation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, internalMsg)
	}
}

// searchParams parses the shared list/search query parameters.
func searchParams(q url.Values) (vault.Filters, vault.SortOptions, error) {
	filters := vault.Filters{
		Query:         strings.TrimSpace(q.Get("query")),
		Years:         splitCSV(q.Get("year")),
		CompanyCodes:  splitCSV(q.Get("companyCode")),
		AssemblyCodes: splitCSV(q.Get("assemblyCode")),
		Type:          q.Get("type"),
	}

	if filters.Type != "" && filters.Type != "file" && filters.Type != "folder" {
		return filters, vault.SortOptions{}, fmt.Errorf("type must be 'file' or 'folder'")
	}

	var err error
	if filters.CreatedFrom, err = parseDate(q.Get("createdFrom"), false); err != nil {
		return filters, vault.SortOptions{}, fmt.Errorf("invalid createdFrom date")
	}
	if filters.CreatedTo, err = parseDate(q.Get("createdTo"), true); err != nil {
		return filters, vault.SortOptions{}, fmt.Errorf("invalid createdTo date")
	}

	sortOpts := vault.SortOptions{
		Key:   q.Get("sortBy"),
		Order: q.Get("sortOrder"),
	}
	return filters, sortOpts, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// parseDate accepts RFC 3339 or a bare date. A bare createdTo date is
// pushed to the end of that day so the range is inclusive.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
