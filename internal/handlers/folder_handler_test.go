package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"drawvault-backend/internal/config"
	"drawvault-backend/internal/models"
	"drawvault-backend/vault"
)

// fakeIndex is a map-backed vault.Index for handler tests.
type fakeIndex struct {
	mu   sync.Mutex
	recs map[string]*models.Metadata
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{recs: make(map[string]*models.Metadata)}
}

func (f *fakeIndex) UpsertOnCreate(_ context.Context, rec *models.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *rec
	f.recs[rec.FilePath] = &clone
	return nil
}

func (f *fakeIndex) RenameRecord(_ context.Context, oldPath, newPath, newName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.recs[oldPath]; ok {
		delete(f.recs, oldPath)
		rec.FilePath = newPath
		rec.FileName = newName
		f.recs[newPath] = rec
	}
	return nil
}

func (f *fakeIndex) RenamePrefix(_ context.Context, oldPrefix, newPrefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p, rec := range f.recs {
		if strings.HasPrefix(p, oldPrefix) {
			delete(f.recs, p)
			rec.FilePath = newPrefix + p[len(oldPrefix):]
			f.recs[rec.FilePath] = rec
		}
	}
	return nil
}

func (f *fakeIndex) DeleteRecord(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, path)
	return nil
}

func (f *fakeIndex) DeleteByPrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := range f.recs {
		if strings.HasPrefix(p, prefix) {
			delete(f.recs, p)
		}
	}
	return nil
}

func (f *fakeIndex) FindByPath(_ context.Context, path string) (*models.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[path]
	if !ok {
		return nil, nil
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeIndex) ListPaths(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := make([]string, 0, len(f.recs))
	for p := range f.recs {
		paths = append(paths, p)
	}
	return paths, nil
}

func setupFolderHandler(t *testing.T) *FolderHandler {
	t.Helper()
	store, err := vault.New(t.TempDir(), newFakeIndex(), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	cfg := &config.Config{
		MaxUploadBytes: 10 * 1024 * 1024,
		SearchTimeout:  5 * time.Second,
	}
	return NewFolderHandler(store, cfg, zap.NewNop())
}

func TestListHandlerNotFound(t *testing.T) {
	h := setupFolderHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/folder/list?path=missing", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestListHandlerEmptyRoot(t *testing.T) {
	h := setupFolderHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/folder/list", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var entries []vault.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("response should be a JSON array: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty listing, got %d entries", len(entries))
	}
}

func TestCreateFolderHandlerMissingName(t *testing.T) {
	h := setupFolderHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/folder/create-folder", strings.NewReader(`{"path":""}`))
	rec := httptest.NewRecorder()
	h.CreateFolder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateFolderHandlerCollision(t *testing.T) {
	h := setupFolderHandler(t)

	var last string
	for i := 0; i < 2; i++ {
		body := strings.NewReader(`{"folderName":"2024-AC-XY","path":""}`)
		req := httptest.NewRequest(http.MethodPost, "/api/folder/create-folder", body)
		rec := httptest.NewRecorder()
		h.CreateFolder(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data struct {
				FolderName string `json:"folderName"`
			} `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		last = resp.Data.FolderName
	}

	if last != "2024-AC-XY-1" {
		t.Errorf("expected collision-resolved name 2024-AC-XY-1, got %q", last)
	}
}

func TestRenameHandlerMissingTarget(t *testing.T) {
	h := setupFolderHandler(t)

	body := strings.NewReader(`{"oldName":"ghost.txt","newName":"new.txt","path":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/folder/rename", body)
	rec := httptest.NewRecorder()
	h.Rename(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestUploadHandlerNoFile(t *testing.T) {
	h := setupFolderHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("path", "")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/folder/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadListSearchRoundTrip(t *testing.T) {
	h := setupFolderHandler(t)

	// Create the scenario folder, which also creates 2D-Drawing.
	body := strings.NewReader(`{"folderName":"2024-AC-XY","path":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/folder/create-folder", body)
	h.CreateFolder(httptest.NewRecorder(), req)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("path", "2024-AC-XY/2D-Drawing")
	fw, _ := mw.CreateFormFile("file", "spec.pdf")
	fw.Write([]byte("%PDF-1.4"))
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/folder/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/folder/list?path=2024-AC-XY/2D-Drawing", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var entries []vault.Entry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "spec.pdf" {
		t.Fatalf("expected spec.pdf in listing, got %+v", entries)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/folder/search?query=spec", nil)
	rec = httptest.NewRecorder()
	h.Search(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	var results []vault.Entry
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode search results: %v", err)
	}
	if len(results) != 1 || results[0].Path != "2024-AC-XY/2D-Drawing/spec.pdf" {
		t.Fatalf("expected search hit with full path, got %+v", results)
	}
}

func TestSearchHandlerRequiresQuery(t *testing.T) {
	h := setupFolderHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/folder/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestListHandlerRejectsBadType(t *testing.T) {
	h := setupFolderHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/folder/list?type=weird", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
