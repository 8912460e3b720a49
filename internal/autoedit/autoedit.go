// Package autoedit turns externally produced analysis spans (filler words,
// silence, dead air) into cut lists the edit engine will accept. Detection
// itself happens outside this process; spans arrive already computed and only
// need normalizing against each target element.
package autoedit

import (
	"fmt"
	"sort"

	"github.com/qcut/timeline-agent/internal/engine"
	"github.com/qcut/timeline-agent/internal/timeline"
)

// Span is a detected removable range in an element's local content time.
// Detectors may emit overlapping or unordered spans; Normalize resolves that.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label,omitempty"`
}

// Target pairs one element with its detected spans.
type Target struct {
	ElementID string `json:"element_id"`
	Spans     []Span `json:"spans"`
}

// Normalize converts raw spans into a cut list valid for an element of the
// given duration: sorted, clamped to [0, duration], overlapping and adjacent
// spans merged, empty results dropped. Returns nil when nothing survives.
func Normalize(spans []Span, duration float64) []engine.Interval {
	clamped := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > duration {
			s.End = duration
		}
		if s.End > s.Start {
			clamped = append(clamped, s)
		}
	}
	if len(clamped) == 0 {
		return nil
	}

	sort.Slice(clamped, func(i, j int) bool { return clamped[i].Start < clamped[j].Start })

	cuts := []engine.Interval{{Start: clamped[0].Start, End: clamped[0].End}}
	for _, s := range clamped[1:] {
		last := &cuts[len(cuts)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		cuts = append(cuts, engine.Interval{Start: s.Start, End: s.End})
	}
	return cuts
}

// Report aggregates the per-element cut reports of one auto-edit pass.
type Report struct {
	ElementsEdited       int                 `json:"elements_edited"`
	CutsApplied          int                 `json:"cuts_applied"`
	TotalRemovedDuration float64             `json:"total_removed_duration"`
	RetiredIDs           []string            `json:"retired_ids,omitempty"`
	Reports              []*engine.CutReport `json:"reports"`
}

// Apply runs one batch cut per target element, in order, against tl. All
// targets are resolved and normalized before any cut is applied, so a bad
// target rejects the whole pass. Ripple applies per element on its own track.
func Apply(tl *timeline.Timeline, targets []Target, ripple bool) (*timeline.Timeline, *Report, error) {
	type plan struct {
		elementID string
		cuts      []engine.Interval
	}

	plans := make([]plan, 0, len(targets))
	for _, tgt := range targets {
		track, idx, ok := tl.FindElement(tgt.ElementID)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", engine.ErrElementNotFound, tgt.ElementID)
		}
		cuts := Normalize(tgt.Spans, track.Elements[idx].Duration())
		if len(cuts) == 0 {
			continue
		}
		plans = append(plans, plan{elementID: tgt.ElementID, cuts: cuts})
	}

	report := &Report{}
	current := tl
	for _, p := range plans {
		next, cutReport, err := engine.ApplyCuts(current, p.elementID, p.cuts, ripple)
		if err != nil {
			return nil, nil, err
		}
		current = next
		report.ElementsEdited++
		report.CutsApplied += cutReport.CutsApplied
		report.TotalRemovedDuration += cutReport.TotalRemovedDuration
		report.RetiredIDs = append(report.RetiredIDs, cutReport.RetiredIDs...)
		report.Reports = append(report.Reports, cutReport)
	}

	return current, report, nil
}
