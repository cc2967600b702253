package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/inspection-report/internal/config"
	"github.com/kozaktomas/inspection-report/internal/database"
)

// ShipsHandler handles ship endpoints
type ShipsHandler struct {
	config *config.Config
}

// NewShipsHandler creates a new ships handler
func NewShipsHandler(cfg *config.Config) *ShipsHandler {
	return &ShipsHandler{config: cfg}
}

type shipResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IMO       string `json:"imo"`
	CreatedAt string `json:"created_at"`
}

func newShipResponse(s *database.Ship) shipResponse {
	return shipResponse{
		Code:      s.Code,
		Name:      s.Name,
		IMO:       s.IMO,
		CreatedAt: s.CreatedAt.UTC().Format(timestampLayout),
	}
}

func (h *ShipsHandler) List(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	ships, err := reader.ListShips(r.Context())
	if err != nil {
		respondStoreError(w, err, "ship", "list ships")
		return
	}
	result := make([]shipResponse, len(ships))
	for i := range ships {
		result[i] = newShipResponse(&ships[i])
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *ShipsHandler) Get(w http.ResponseWriter, r *http.Request) {
	reader := getFindingReader(r, w)
	if reader == nil {
		return
	}
	ship, err := reader.GetShip(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondStoreError(w, err, "ship", "get ship")
		return
	}
	respondJSON(w, http.StatusOK, newShipResponse(ship))
}

func (h *ShipsHandler) Create(w http.ResponseWriter, r *http.Request) {
	writer := getFindingWriter(r, w)
	if writer == nil {
		return
	}
	var req struct {
		Code string `json:"code"`
		Name string `json:"name"`
		IMO  string `json:"imo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	ship := &database.Ship{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
		IMO:  strings.TrimSpace(req.IMO),
	}
	if err := ship.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := writer.CreateShip(r.Context(), ship); err != nil {
		respondStoreError(w, err, "ship", "create ship")
		return
	}
	respondJSON(w, http.StatusCreated, newShipResponse(ship))
}
