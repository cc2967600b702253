package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/inspection-report/internal/database"
	"github.com/kozaktomas/inspection-report/internal/report"
)

// ReportsHandler compiles inspection reports.
type ReportsHandler struct {
	compiler *report.Compiler
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(compiler *report.Compiler) *ReportsHandler {
	return &ReportsHandler{compiler: compiler}
}

// Get compiles the report of a ship. With ?format=report the JSON export
// report is returned instead of the PDF.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	code := chi.URLParam(r, "code")

	res, err := h.compiler.CompileShip(r.Context(), reader, code)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusNotFound, "ship not found")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respondError(w, http.StatusServiceUnavailable, "report generation was interrupted")
		default:
			log.Printf("WARNING: report for %s failed: %s", sanitizeForLog(code), sanitizeForLog(err.Error()))
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %v", err))
		}
		return
	}

	if r.URL.Query().Get("format") == "report" {
		respondJSON(w, http.StatusOK, res.Report)
		return
	}

	if n := len(res.Report.Warnings); n > 0 {
		w.Header().Set("X-Export-Warnings", strconv.Itoa(n))
	}
	if res.Report.FailedImages > 0 {
		w.Header().Set("X-Export-Failed-Images", strconv.Itoa(res.Report.FailedImages))
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF)
}
