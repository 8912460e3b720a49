package engine

import (
	"fmt"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// RangeDeleteRequest describes a time-range deletion. An empty TrackIDs means
// every track. Ripple closes the resulting gap on the affected tracks;
// CrossTrackRipple extends the close to all tracks so unedited tracks stay in
// sync with edited ones.
type RangeDeleteRequest struct {
	StartTime        float64  `json:"start_time"`
	EndTime          float64  `json:"end_time"`
	TrackIDs         []string `json:"track_ids,omitempty"`
	Ripple           bool     `json:"ripple,omitempty"`
	CrossTrackRipple bool     `json:"cross_track_ripple,omitempty"`
}

// DeleteRange removes [StartTime, EndTime) from the selected tracks. Elements
// fully inside the range are deleted; elements straddling a boundary are
// split there and the inside portion discarded. TotalRemovedDuration in the
// report is the range length, counted once however many tracks were touched.
func DeleteRange(tl *timeline.Timeline, req RangeDeleteRequest) (*timeline.Timeline, *RangeDeleteReport, error) {
	if req.StartTime >= req.EndTime {
		return nil, nil, fmt.Errorf("%w: start %v >= end %v", ErrInvalidInterval, req.StartTime, req.EndTime)
	}

	out := tl.Clone()

	affected := make(map[string]bool)
	if len(req.TrackIDs) == 0 {
		for _, tr := range out.Tracks {
			affected[tr.ID] = true
		}
	} else {
		for _, id := range req.TrackIDs {
			if out.Track(id) == nil {
				return nil, nil, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
			}
			affected[id] = true
		}
	}

	report := &RangeDeleteReport{TotalRemovedDuration: req.EndTime - req.StartTime}

	for i := range out.Tracks {
		track := &out.Tracks[i]
		if !affected[track.ID] {
			continue
		}
		deleteRangeOnTrack(track, req.StartTime, req.EndTime, report)
	}

	if req.Ripple {
		delta := -(req.EndTime - req.StartTime)
		for i := range out.Tracks {
			track := &out.Tracks[i]
			if !req.CrossTrackRipple && !affected[track.ID] {
				continue
			}
			if err := rippleTrack(track, req.EndTime, delta); err != nil {
				return nil, nil, err
			}
		}
	}

	return out, report, nil
}

// deleteRangeOnTrack removes the range from one track, updating the report.
// The element slice is rebuilt so removals and replacements stay ordered.
func deleteRangeOnTrack(track *timeline.Track, start, end float64, report *RangeDeleteReport) {
	kept := make([]timeline.Element, 0, len(track.Elements))

	for _, el := range track.Elements {
		switch {
		// No intersection with the range.
		case el.EndTime <= start || el.StartTime >= end:
			kept = append(kept, el)

		// Fully inside: delete outright.
		case el.StartTime >= start && el.EndTime <= end:
			report.DeletedElements++
			report.RetiredIDs = append(report.RetiredIDs, el.ID)

		// Straddles both boundaries: split at each, drop the middle.
		case el.StartTime < start && el.EndTime > end:
			left := el
			left.ID = timeline.NewID()
			left.EndTime = start
			left.TrimEnd += el.EndTime - start

			right := el
			right.ID = timeline.NewID()
			right.StartTime = end
			right.TrimStart += end - el.StartTime

			kept = append(kept, left, right)
			report.SplitElements += 2
			report.RetiredIDs = append(report.RetiredIDs, el.ID)

		// Overlaps the left boundary only: trim the tail off in place.
		case el.StartTime < start:
			el.TrimEnd += el.EndTime - start
			el.EndTime = start
			kept = append(kept, el)
			report.SplitElements++

		// Overlaps the right boundary only: trim the head off in place.
		default:
			el.TrimStart += end - el.StartTime
			el.StartTime = end
			kept = append(kept, el)
			report.SplitElements++
		}
	}

	track.Elements = kept
	track.SortElements()
}
