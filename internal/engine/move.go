package engine

import (
	"fmt"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// MoveRequest relocates one element. NewStartTime nil keeps the element's
// current start; the destination may be the element's own track.
type MoveRequest struct {
	ElementID    string   `json:"element_id"`
	ToTrackID    string   `json:"to_track_id"`
	NewStartTime *float64 `json:"new_start_time,omitempty"`
}

// MoveElement relocates an element to a new track and/or start time,
// preserving its id, duration and trims. On tracks that do not permit
// overlap, a destination range already occupied by another element fails with
// ErrMoveCollision; the engine never ripples to make room (callers wanting
// that compose a range delete with the move).
func MoveElement(tl *timeline.Timeline, req MoveRequest) (*timeline.Timeline, *MoveReport, error) {
	out := tl.Clone()

	src, idx, ok := out.FindElement(req.ElementID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrElementNotFound, req.ElementID)
	}
	dest := out.Track(req.ToTrackID)
	if dest == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrTrackNotFound, req.ToTrackID)
	}

	el := src.Elements[idx]
	newStart := el.StartTime
	if req.NewStartTime != nil {
		newStart = *req.NewStartTime
	}
	if newStart < 0 {
		return nil, nil, fmt.Errorf("%w: negative start time %v", ErrInvalidInterval, newStart)
	}

	moved := el
	moved.StartTime = newStart
	moved.EndTime = newStart + el.Duration()

	if !dest.AllowsOverlap {
		for _, other := range dest.Elements {
			if other.ID == moved.ID {
				continue
			}
			if moved.Overlaps(other) {
				return nil, nil, fmt.Errorf("%w: element %s occupies [%v, %v)", ErrMoveCollision, other.ID, other.StartTime, other.EndTime)
			}
		}
	}

	src.RemoveElement(idx)
	dest.InsertElement(moved)

	return out, &MoveReport{Element: summarize(moved), TrackID: dest.ID}, nil
}
