package api

import (
	"time"

	"github.com/qcut/timeline-agent/internal/autoedit"
	"github.com/qcut/timeline-agent/internal/engine"
	"github.com/qcut/timeline-agent/internal/project"
	"github.com/qcut/timeline-agent/internal/selection"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

// CutRequest is the Batch Cut operation: remove a validated set of local
// intervals from one element in a single atomic call.
type CutRequest struct {
	ElementID string            `json:"element_id"`
	Cuts      []engine.Interval `json:"cuts"`
	Ripple    bool              `json:"ripple,omitempty"`
}

type SplitRequest struct {
	ElementID string  `json:"element_id"`
	SplitTime float64 `json:"split_time"`
	Mode      string  `json:"mode,omitempty"`
}

type SplitResponse struct {
	SecondElementID *string `json:"second_element_id"`
}

type AutoCutRequest struct {
	Targets []autoedit.Target `json:"targets"`
	Ripple  bool              `json:"ripple,omitempty"`
}

type SelectionRequest struct {
	Selected []selection.Ref `json:"selected"`
}

type SelectionResponse struct {
	Selected []selection.Ref `json:"selected"`
}

type ExportEDLRequest struct {
	TrackID string `json:"track_id,omitempty"`
	Title   string `json:"title,omitempty"`
}

type ExportEDLResponse struct {
	Title     string `json:"title"`
	ClipCount int    `json:"clip_count"`
	EDL       string `json:"edl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ProjectToResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
