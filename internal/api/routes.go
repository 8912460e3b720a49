package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects/{id}", getProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))

		r.Get("/projects/{id}/timeline", getTimelineHandler(cfg))
		r.Put("/projects/{id}/timeline", putTimelineHandler(cfg))

		r.Post("/projects/{id}/edits/cut", cutHandler(cfg))
		r.Post("/projects/{id}/edits/range-delete", rangeDeleteHandler(cfg))
		r.Post("/projects/{id}/edits/split", splitHandler(cfg))
		r.Post("/projects/{id}/edits/move", moveHandler(cfg))
		r.Post("/projects/{id}/edits/arrange", arrangeHandler(cfg))
		r.Post("/projects/{id}/edits/autocut", autoCutHandler(cfg))

		r.Get("/projects/{id}/selection", getSelectionHandler(cfg))
		r.Put("/projects/{id}/selection", putSelectionHandler(cfg))

		r.Post("/projects/{id}/export/edl", exportEDLHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}
