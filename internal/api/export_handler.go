package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/qcut/timeline-agent/internal/export"
	"github.com/qcut/timeline-agent/internal/timeline"
)

const maxEDLTitleLen = 70

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportEDLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		projectID := chi.URLParam(r, "id")
		tl, err := cfg.Service.GetTimeline(r.Context(), projectID)
		if err != nil {
			writeServiceError(w, cfg, err)
			return
		}

		track := pickExportTrack(tl, req.TrackID)
		if track == nil {
			WriteError(w, http.StatusNotFound, "no exportable track found", "TRACK_NOT_FOUND")
			return
		}

		title := export.SanitizeName(req.Title, maxEDLTitleLen)
		if title == "" {
			title = export.SanitizeName(tl.Name, maxEDLTitleLen)
		}
		if title == "" {
			title = "UNTITLED"
		}

		edl, count := export.GenerateEDL(track, title, tl.FPS)
		WriteJSON(w, http.StatusOK, ExportEDLResponse{
			Title:     title,
			ClipCount: count,
			EDL:       edl,
		})
	}
}

// pickExportTrack returns the requested track, or the first video track
// when no track id was given.
func pickExportTrack(tl *timeline.Timeline, trackID string) *timeline.Track {
	if trackID != "" {
		return tl.Track(trackID)
	}
	for i := range tl.Tracks {
		if tl.Tracks[i].Kind == timeline.TrackVideo {
			return &tl.Tracks[i]
		}
	}
	if len(tl.Tracks) > 0 {
		return &tl.Tracks[0]
	}
	return nil
}
