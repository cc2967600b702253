package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/photoset"
	"github.com/kozaktomas/inspection-report/internal/storage"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z"
)

// FindingsHandler handles finding endpoints
type FindingsHandler struct {
	config *config.Config
	store  storage.Store
}

// NewFindingsHandler creates a new findings handler. store is used to remove
// the photos of deleted findings.
func NewFindingsHandler(cfg *config.Config, store storage.Store) *FindingsHandler {
	return &FindingsHandler{config: cfg, store: store}
}

type findingResponse struct {
	ID           string   `json:"id"`
	ShipCode     string   `json:"ship_code"`
	SeqNo        int      `json:"seq_no"`
	Date         string   `json:"date"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	PICShip      string   `json:"pic_ship"`
	PICOffice    string   `json:"pic_office"`
	Status       string   `json:"status"`
	BeforePhotos []string `json:"before_photos"`
	AfterPhotos  []string `json:"after_photos"`
	Comment      string   `json:"comment"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func newFindingResponse(f *database.Finding) findingResponse {
	return findingResponse{
		ID:           f.ID,
		ShipCode:     f.ShipCode,
		SeqNo:        f.SeqNo,
		Date:         f.Date.Format(dateLayout),
		Description:  f.Description,
		Category:     f.Category,
		PICShip:      f.PICShip,
		PICOffice:    f.PICOffice,
		Status:       string(f.Status),
		BeforePhotos: photoset.Decode(f.Before),
		AfterPhotos:  photoset.Decode(f.After),
		Comment:      f.Comment,
		CreatedAt:    f.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:    f.UpdatedAt.UTC().Format(timestampLayout),
	}
}

// findingRequest is shared by create and update; nil fields are left unchanged on update.
type findingRequest struct {
	Date         *string  `json:"date"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	PICShip      *string  `json:"pic_ship"`
	PICOffice    *string  `json:"pic_office"`
	Status       *string  `json:"status"`
	Comment      *string  `json:"comment"`
	BeforePhotos []string `json:"before_photos"`
	AfterPhotos  []string `json:"after_photos"`
}

// apply copies the set fields of the request onto f.
func (req *findingRequest) apply(f *database.Finding) error {
	if req.Date != nil {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*req.Date))
		if err != nil {
			return errInvalidDate
		}
		f.Date = d
	}
	if req.Status != nil {
		s, err := database.ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		f.Status = s
	}
	setString(&f.Description, req.Description)
	setString(&f.Category, req.Category)
	setString(&f.PICShip, req.PICShip)
	setString(&f.PICOffice, req.PICOffice)
	setString(&f.Comment, req.Comment)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

var errInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

func (h *FindingsHandler) List(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	code := chi.URLParam(r, "code")
	if _, err := reader.GetShip(r.Context(), code); err != nil {
		respondStoreError(w, err, "ship", "get ship")
		return
	}
	findings, err := reader.ListFindings(r.Context(), code)
	if err != nil {
		respondStoreError(w, err, "finding", "list findings")
		return
	}
	result := make([]findingResponse, len(findings))
	for i := range findings {
		result[i] = newFindingResponse(&findings[i])
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *FindingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	finding, err := reader.GetFinding(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "finding", "get finding")
		return
	}
	respondJSON(w, http.StatusOK, newFindingResponse(finding))
}

func (h *FindingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	var req findingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	finding := &database.Finding{
		ShipCode: chi.URLParam(r, "code"),
		Date:     time.Now().UTC().Truncate(24 * time.Hour),
		Status:   database.StatusOpen,
		Before:   photoset.Encode(req.BeforePhotos),
		After:    photoset.Encode(req.AfterPhotos),
	}
	if err := req.apply(finding); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := finding.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := writer.CreateFinding(r.Context(), finding); err != nil {
		respondStoreError(w, err, "ship", "create finding")
		return
	}
	respondJSON(w, http.StatusCreated, newFindingResponse(finding))
}

func (h *FindingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	finding, err := writer.GetFinding(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "finding", "get finding")
		return
	}
	var req findingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.BeforePhotos != nil || req.AfterPhotos != nil {
		respondError(w, http.StatusBadRequest, "photos are changed through the photos endpoints")
		return
	}
	if err := req.apply(finding); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := finding.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := writer.UpdateFinding(r.Context(), finding); err != nil {
		respondStoreError(w, err, "finding", "update finding")
		return
	}
	respondJSON(w, http.StatusOK, newFindingResponse(finding))
}

func (h *FindingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	deleted, err := writer.DeleteFinding(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "finding", "delete finding")
		return
	}

	uris := append(photoset.Decode(deleted.Before), photoset.Decode(deleted.After)...)
	removed := deletePhotos(r.Context(), h.store, uris)
	respondJSON(w, http.StatusOK, map[string]any{
		"deleted":        true,
		"photos_removed": removed,
	})
}

// deletePhotos removes photos from storage, logging failures. Returns the
// number of photos removed.
func deletePhotos(ctx context.Context, store storage.Store, uris []string) int {
	if store == nil {
		return 0
	}
	removed := 0
	for _, uri := range uris {
		if err := store.Delete(ctx, uri); err != nil {
			log.Printf("WARNING: failed to delete photo %s: %s", sanitizeForLog(uri), sanitizeForLog(err.Error()))
			continue
		}
		removed++
	}
	return removed
}
