package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/inspection-report/internal/database"
)

func TestRespondJSON(t *testing.T) {
	t.Run("sets content type and status", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respondJSON(recorder, http.StatusCreated, map[string]string{"status": "ok"})
		assertStatusCode(t, recorder, http.StatusCreated)
		assertContentType(t, recorder, "application/json")
	})

	t.Run("nil data has empty body", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respondJSON(recorder, http.StatusOK, nil)
		if recorder.Body.Len() != 0 {
			t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
		}
	})

	t.Run("empty map", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		respondJSON(recorder, http.StatusOK, map[string]string{})
		if recorder.Body.String() != "{}\n" {
			t.Errorf("expected '{}', got '%s'", recorder.Body.String())
		}
	})
}

func TestRespondError(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondError(recorder, http.StatusBadRequest, "something went wrong")

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertContentType(t, recorder, "application/json")
	assertJSONError(t, recorder, "something went wrong")
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("ship X: %w", database.ErrNotFound), http.StatusNotFound, "ship not found"},
		{"conflict", fmt.Errorf("ship X: %w", database.ErrConflict), http.StatusConflict, "ship already exists"},
		{"other", errMock, http.StatusInternalServerError, "failed to create ship"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondStoreError(recorder, tc.err, "ship", "create ship")
			assertStatusCode(t, recorder, tc.status)
			assertJSONError(t, recorder, tc.message)
		})
	}
}

func TestSanitizeForLog(t *testing.T) {
	if got := sanitizeForLog("a\r\nb\nc"); got != "abc" {
		t.Errorf("sanitizeForLog = %q", got)
	}
}

func TestStorageNotAvailable(t *testing.T) {
	database.ResetForTesting()
	handler := NewShipsHandler(testConfig())

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/ships", nil))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "finding storage not available")
}

func TestHealthCheck(t *testing.T) {
	for _, method := range []string{"GET", "HEAD"} {
		t.Run(method, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			HealthCheck(recorder, httptest.NewRequest(method, "/health", nil))
			assertStatusCode(t, recorder, http.StatusOK)
			assertContentType(t, recorder, "application/json")
		})
	}

	recorder := httptest.NewRecorder()
	HealthCheck(recorder, httptest.NewRequest("GET", "/health", nil))
	var result map[string]any
	parseJSONResponse(t, recorder, &result)
	if result["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%v'", result["status"])
	}
}
