package engine

import (
	"fmt"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// ApplyCuts removes a batch of local-time intervals from one element,
// replacing it with a fragment per maximal kept sub-range. Fragments stay in
// original order and pack contiguously from the element's original start, so
// the clip reads as continuous content once the cuts are gone. Cut intervals
// are relative to the element's local content time ([0, duration)); portions
// falling outside that range remove nothing.
//
// When ripple is true, every other element on the same track starting at or
// after the element's original end time is shifted left by the total removed
// duration. When false, a gap of that length opens after the fragments.
//
// The whole batch is validated first and applied atomically: a malformed cut
// list rejects the request without touching anything.
func ApplyCuts(tl *timeline.Timeline, elementID string, cuts []Interval, ripple bool) (*timeline.Timeline, *CutReport, error) {
	sorted, err := ValidateIntervals(cuts)
	if err != nil {
		return nil, nil, err
	}

	out := tl.Clone()
	track, idx, ok := out.FindElement(elementID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrElementNotFound, elementID)
	}
	orig := track.Elements[idx]
	dur := orig.Duration()

	fragments, removed := cutFragments(orig, sorted, dur)

	report := &CutReport{CutsApplied: len(sorted), TotalRemovedDuration: removed}

	if removed == 0 {
		// Nothing intersected the element; keep it as-is, id included.
		report.RemainingElements = []ElementSummary{summarize(orig)}
		return out, report, nil
	}

	track.RemoveElement(idx)
	report.RetiredIDs = []string{orig.ID}

	if len(fragments) == 0 {
		report.ElementsRemoved = 1
	} else {
		for _, f := range fragments {
			track.InsertElement(f)
			report.RemainingElements = append(report.RemainingElements, summarize(f))
		}
	}

	if ripple {
		if err := rippleTrack(track, orig.EndTime, -removed); err != nil {
			return nil, nil, err
		}
	}

	return out, report, nil
}

// cutFragments walks the element's local range and the sorted cut list
// together, emitting a fragment for every maximal kept sub-range. Each
// fragment starts at the original start plus the kept duration before it,
// with trims advanced to the fragment's source offsets. Returns the fragments
// and the total duration actually removed.
func cutFragments(orig timeline.Element, cuts []Interval, dur float64) ([]timeline.Element, float64) {
	var fragments []timeline.Element
	cursor := 0.0 // local time consumed so far
	kept := 0.0   // kept duration emitted so far

	emit := func(from, to float64) {
		if to <= from {
			return
		}
		fragments = append(fragments, timeline.Element{
			ID:        timeline.NewID(),
			SourceID:  orig.SourceID,
			Name:      orig.Name,
			StartTime: orig.StartTime + kept,
			EndTime:   orig.StartTime + kept + (to - from),
			TrimStart: orig.TrimStart + from,
			TrimEnd:   orig.TrimEnd + (dur - to),
		})
		kept += to - from
	}

	for _, c := range cuts {
		start := c.Start
		if start > dur {
			start = dur
		}
		emit(cursor, start)
		if c.End > cursor {
			cursor = c.End
		}
		if cursor > dur {
			cursor = dur
		}
	}
	emit(cursor, dur)

	return fragments, dur - kept
}

func summarize(el timeline.Element) ElementSummary {
	return ElementSummary{ID: el.ID, StartTime: el.StartTime, Duration: el.Duration()}
}
