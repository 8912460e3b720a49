package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func getSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")
		if _, err := cfg.Service.GetProject(r.Context(), projectID); err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, SelectionResponse{Selected: cfg.Service.Selection(projectID)})
	}
}

func putSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")

		var req SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if _, err := cfg.Service.GetProject(r.Context(), projectID); err != nil {
			writeServiceError(w, cfg, err)
			return
		}

		cfg.Service.SetSelection(projectID, req.Selected)
		WriteJSON(w, http.StatusOK, SelectionResponse{Selected: cfg.Service.Selection(projectID)})
	}
}
