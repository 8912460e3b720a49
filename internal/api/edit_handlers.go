package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/qcut/timeline-agent/internal/engine"
	"github.com/qcut/timeline-agent/internal/project"
)

func cutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.ElementID == "" {
			WriteError(w, http.StatusBadRequest, "element_id is required", "BAD_REQUEST")
			return
		}
		if len(req.Cuts) == 0 {
			WriteError(w, http.StatusBadRequest, "cuts must not be empty", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.Cut(r.Context(), chi.URLParam(r, "id"), req.ElementID, req.Cuts, req.Ripple)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func rangeDeleteHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engine.RangeDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.DeleteRange(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func splitHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.ElementID == "" {
			WriteError(w, http.StatusBadRequest, "element_id is required", "BAD_REQUEST")
			return
		}

		mode := engine.SplitMode(req.Mode)
		switch mode {
		case "", engine.ModeSplit, engine.ModeKeepLeft, engine.ModeKeepRight:
		default:
			WriteError(w, http.StatusBadRequest, "mode must be split, keepLeft or keepRight", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.Split(r.Context(), chi.URLParam(r, "id"), req.ElementID, req.SplitTime, mode)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}

		resp := SplitResponse{}
		if report.SecondElementID != "" {
			id := report.SecondElementID
			resp.SecondElementID = &id
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func moveHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engine.MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.ElementID == "" || req.ToTrackID == "" {
			WriteError(w, http.StatusBadRequest, "element_id and to_track_id are required", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.Move(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func arrangeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req engine.ArrangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		switch req.Mode {
		case engine.ModeSequential, engine.ModeSpaced, engine.ModeManual:
		default:
			WriteError(w, http.StatusBadRequest, "mode must be sequential, spaced or manual", "BAD_REQUEST")
			return
		}
		if req.Mode == engine.ModeManual && len(req.Order) == 0 {
			WriteError(w, http.StatusBadRequest, "order is required for manual mode", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.Arrange(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func autoCutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AutoCutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if len(req.Targets) == 0 {
			WriteError(w, http.StatusBadRequest, "targets must not be empty", "BAD_REQUEST")
			return
		}

		report, err := cfg.Service.AutoCut(r.Context(), chi.URLParam(r, "id"), req.Targets, req.Ripple)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

// writeServiceError maps engine and project errors to stable HTTP statuses
// and machine codes, so callers can present each failure kind distinctly.
func writeServiceError(w http.ResponseWriter, cfg ServerConfig, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInterval):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_INTERVAL")
	case errors.Is(err, engine.ErrOverlappingIntervals):
		WriteError(w, http.StatusBadRequest, err.Error(), "OVERLAPPING_INTERVALS")
	case errors.Is(err, engine.ErrSplitOutOfBounds):
		WriteError(w, http.StatusBadRequest, err.Error(), "SPLIT_OUT_OF_BOUNDS")
	case errors.Is(err, project.ErrInvalidTimeline):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_TIMELINE")
	case errors.Is(err, engine.ErrElementNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "ELEMENT_NOT_FOUND")
	case errors.Is(err, engine.ErrTrackNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "TRACK_NOT_FOUND")
	case errors.Is(err, engine.ErrUnknownElementID):
		WriteError(w, http.StatusNotFound, err.Error(), "UNKNOWN_ELEMENT_ID")
	case errors.Is(err, project.ErrProjectNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, engine.ErrMoveCollision):
		WriteError(w, http.StatusConflict, err.Error(), "MOVE_COLLISION")
	case errors.Is(err, engine.ErrRippleUnderflow):
		WriteError(w, http.StatusConflict, err.Error(), "RIPPLE_UNDERFLOW")
	default:
		cfg.Logger.Error("edit request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
