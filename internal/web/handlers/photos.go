package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/constants"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/imageopt"
	"github.com/kozaktomas/inspection-report/internal/photoset"
	"github.com/kozaktomas/inspection-report/internal/storage"
)

// PhotosHandler handles uploading, removing and previewing finding photos.
type PhotosHandler struct {
	config    *config.Config
	store     storage.Store
	optimizer *imageopt.Optimizer
}

// NewPhotosHandler creates a new photos handler.
func NewPhotosHandler(cfg *config.Config, store storage.Store, optimizer *imageopt.Optimizer) *PhotosHandler {
	return &PhotosHandler{config: cfg, store: store, optimizer: optimizer}
}

var allowedPhotoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

// readUploadedPhoto reads one multipart file and checks that it looks like an image.
func readUploadedPhoto(fh *multipart.FileHeader) ([]byte, string, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %s", fh.Filename)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize+1))
	if err != nil {
		return nil, "", errors.New("failed to read file")
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("file %s is empty", fh.Filename)
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, "", fmt.Errorf("file %s is not an image", fh.Filename)
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	if !slices.Contains(allowedPhotoExtensions, ext) {
		ext = ".jpg"
	}
	return data, uuid.New().String() + ext, nil
}

// Upload stores multipart "files" and appends their URIs to a photo set.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	slot, err := database.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := writer.GetFinding(r.Context(), id); err != nil {
		respondStoreError(w, err, "finding", "get finding")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > constants.MaxPhotosPerUpload {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("at most %d files per upload", constants.MaxPhotosPerUpload))
		return
	}

	uris := make([]string, 0, len(files))
	for _, fh := range files {
		data, name, err := readUploadedPhoto(fh)
		if err != nil {
			deletePhotos(r.Context(), h.store, uris)
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		uri, err := h.store.Put(r.Context(), name, data)
		if err != nil {
			deletePhotos(r.Context(), h.store, uris)
			log.Printf("WARNING: failed to store photo %s: %s", sanitizeForLog(name), sanitizeForLog(err.Error()))
			respondError(w, http.StatusBadGateway, "failed to store photo")
			return
		}
		uris = append(uris, uri)
	}

	finding, err := writer.UpdatePhotos(r.Context(), id, slot, func(current *string) *string {
		return photoset.AddPhotos(current, uris...)
	})
	if err != nil {
		deletePhotos(r.Context(), h.store, uris)
		respondStoreError(w, err, "finding", "update photos")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"uploaded": uris,
		"finding":  newFindingResponse(finding),
	})
}

// Remove drops one URI from a photo set and deletes the photo from storage.
func (h *PhotosHandler) Remove(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	slot, err := database.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		respondError(w, http.StatusBadRequest, "uri is required")
		return
	}

	found := false
	finding, err := writer.UpdatePhotos(r.Context(), chi.URLParam(r, "id"), slot, func(current *string) *string {
		found = slices.Contains(photoset.Decode(current), uri)
		if !found {
			return current
		}
		return photoset.RemovePhoto(current, uri)
	})
	if err != nil {
		respondStoreError(w, err, "finding", "update photos")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}

	// Sets may hold the same URI more than once; keep the object while any
	// reference remains.
	if !photoReferenced(finding, uri) {
		deletePhotos(r.Context(), h.store, []string{uri})
	}
	respondJSON(w, http.StatusOK, newFindingResponse(finding))
}

// photoReferenced reports whether uri is still in either photo set of f.
func photoReferenced(f *database.Finding, uri string) bool {
	return slices.Contains(photoset.Decode(f.Photos(database.SlotBefore)), uri) ||
		slices.Contains(photoset.Decode(f.Photos(database.SlotAfter)), uri)
}

// Preview returns an optimized JPEG of a photo in a finding's set. Without
// a uri parameter the first photo is used; preset defaults to fullPage.
func (h *PhotosHandler) Preview(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	slot, err := database.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	preset := imageopt.PresetName(r.URL.Query().Get("preset"))
	if preset == "" {
		preset = imageopt.PresetFullPage
	}
	if _, ok := imageopt.Lookup(preset); !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown preset %q", preset))
		return
	}

	finding, err := reader.GetFinding(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "finding", "get finding")
		return
	}
	uris := photoset.Decode(finding.Photos(slot))
	uri := r.URL.Query().Get("uri")
	switch {
	case uri == "" && len(uris) > 0:
		uri = uris[0]
	case !slices.Contains(uris, uri):
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}

	switch res := h.optimizer.Run(r.Context(), imageopt.Key{URI: uri, Preset: preset}).(type) {
	case *imageopt.Optimized:
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(res.Data)
	case *imageopt.Failed:
		log.Printf("WARNING: preview %s", sanitizeForLog(res.String()))
		respondError(w, previewFailureStatus(res.Kind), "could not load photo: "+string(res.Kind))
	}
}

func previewFailureStatus(kind imageopt.FailureKind) int {
	switch kind {
	case imageopt.FailFetch:
		return http.StatusBadGateway
	case imageopt.FailDecode:
		return http.StatusUnprocessableEntity
	case imageopt.FailTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
