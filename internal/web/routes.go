package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/inspection-report/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	shipsHandler := handlers.NewShipsHandler(s.config)
	findingsHandler := handlers.NewFindingsHandler(s.config, s.store)
	photosHandler := handlers.NewPhotosHandler(s.config, s.store, s.optimizer)
	reportsHandler := handlers.NewReportsHandler(s.compiler)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Ships
		r.Get("/ships", shipsHandler.List)
		r.Post("/ships", shipsHandler.Create)
		r.Get("/ships/{code}", shipsHandler.Get)

		// Findings
		r.Get("/ships/{code}/findings", findingsHandler.List)
		r.Post("/ships/{code}/findings", findingsHandler.Create)
		r.Get("/findings/{id}", findingsHandler.Get)
		r.Put("/findings/{id}", findingsHandler.Update)
		r.Delete("/findings/{id}", findingsHandler.Delete)

		// Photos
		r.Post("/findings/{id}/photos/{slot}", photosHandler.Upload)
		r.Delete("/findings/{id}/photos/{slot}", photosHandler.Remove)
		r.Get("/findings/{id}/photos/{slot}/preview", photosHandler.Preview)

		// Reports
		r.Get("/ships/{code}/report", reportsHandler.Get)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}
