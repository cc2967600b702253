package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/inspection-report/internal/database"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps repository errors to HTTP responses. what names the
// record for the not-found message ("ship", "finding").
func respondStoreError(w http.ResponseWriter, err error, what, action string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, what+" already exists")
	default:
		log.Printf("WARNING: failed to %s: %s", action, sanitizeForLog(err.Error()))
		respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func getFindingReader(r *http.Request, w http.ResponseWriter) database.FindingReader {
	reader, err := database.GetFindingReader(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "finding storage not available")
		return nil
	}
	return reader
}

func getFindingWriter(r *http.Request, w http.ResponseWriter) database.FindingWriter {
	writer, err := database.GetFindingWriter(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "finding storage not available")
		return nil
	}
	return writer
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": database.IsInitialized(),
	})
}
