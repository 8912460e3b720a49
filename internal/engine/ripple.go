package engine

import (
	"fmt"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// Ripple shifts every element whose start time is at or after pivot by delta
// seconds (positive opens a gap, negative closes one). With crossTrack set the
// shift applies identically to every track so parallel tracks stay aligned;
// otherwise only the named track moves. Elements starting before the pivot
// never move. If any shift would push an element before time zero the whole
// operation fails with ErrRippleUnderflow and the input is unchanged.
func Ripple(tl *timeline.Timeline, trackID string, pivot, delta float64, crossTrack bool) (*timeline.Timeline, error) {
	out := tl.Clone()

	if crossTrack {
		for i := range out.Tracks {
			if err := rippleTrack(&out.Tracks[i], pivot, delta); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	track := out.Track(trackID)
	if track == nil {
		return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, trackID)
	}
	if err := rippleTrack(track, pivot, delta); err != nil {
		return nil, err
	}
	return out, nil
}

// rippleTrack applies the shift in place on an already-cloned track. The
// underflow check runs over the whole track before any element moves.
func rippleTrack(tr *timeline.Track, pivot, delta float64) error {
	if delta < 0 {
		for _, el := range tr.Elements {
			if el.StartTime >= pivot && el.StartTime+delta < 0 {
				return fmt.Errorf("%w: element %s at %v, delta %v", ErrRippleUnderflow, el.ID, el.StartTime, delta)
			}
		}
	}
	for i := range tr.Elements {
		if tr.Elements[i].StartTime >= pivot {
			tr.Elements[i].StartTime += delta
			tr.Elements[i].EndTime += delta
		}
	}
	tr.SortElements()
	return nil
}
