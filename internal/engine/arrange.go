package engine

import (
	"fmt"
	"sort"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// ArrangeMode selects the ordering used when repacking a track.
type ArrangeMode string

const (
	// ModeSequential packs elements back to back in current start-time order.
	ModeSequential ArrangeMode = "sequential"
	// ModeSpaced packs like sequential but with a non-zero gap between
	// elements; when the request omits the gap, DefaultSpacedGap applies.
	// The exact product semantics of "spaced" are still an open question,
	// so this sticks to the fixed-gap interpretation.
	ModeSpaced ArrangeMode = "spaced"
	// ModeManual packs in the caller-supplied id order.
	ModeManual ArrangeMode = "manual"
)

// DefaultSpacedGap is the gap used by ModeSpaced when none is given.
const DefaultSpacedGap = 0.5

func (m ArrangeMode) valid() bool {
	switch m {
	case ModeSequential, ModeSpaced, ModeManual:
		return true
	}
	return false
}

// ArrangeRequest repositions a track's elements. Gap nil means 0 for
// sequential and DefaultSpacedGap for spaced. Order is required for manual;
// ids on the track but missing from Order are packed after the listed ones in
// current start-time order.
type ArrangeRequest struct {
	TrackID     string      `json:"track_id"`
	Mode        ArrangeMode `json:"mode"`
	Gap         *float64    `json:"gap,omitempty"`
	Order       []string    `json:"order,omitempty"`
	StartOffset float64     `json:"start_offset,omitempty"`
}

// ArrangeTrack repacks one track: the cursor starts at StartOffset and each
// element in order is placed at the cursor with its duration unchanged, the
// cursor advancing by duration plus gap. Element ids are preserved.
func ArrangeTrack(tl *timeline.Timeline, req ArrangeRequest) (*timeline.Timeline, *ArrangeReport, error) {
	if !req.Mode.valid() {
		return nil, nil, fmt.Errorf("invalid arrange mode %q", req.Mode)
	}
	if req.StartOffset < 0 {
		return nil, nil, fmt.Errorf("%w: negative start offset %v", ErrInvalidInterval, req.StartOffset)
	}

	out := tl.Clone()
	track := out.Track(req.TrackID)
	if track == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrTrackNotFound, req.TrackID)
	}

	gap := 0.0
	if req.Mode == ModeSpaced {
		gap = DefaultSpacedGap
	}
	if req.Gap != nil {
		gap = *req.Gap
	}
	if gap < 0 {
		return nil, nil, fmt.Errorf("%w: negative gap %v", ErrInvalidInterval, gap)
	}

	order, err := arrangeOrder(track, req)
	if err != nil {
		return nil, nil, err
	}

	report := &ArrangeReport{}
	cursor := req.StartOffset
	packed := make([]timeline.Element, 0, len(order))
	for _, el := range order {
		dur := el.Duration()
		el.StartTime = cursor
		el.EndTime = cursor + dur
		packed = append(packed, el)
		report.Arranged = append(report.Arranged, ArrangedElement{ElementID: el.ID, NewStartTime: el.StartTime})
		cursor += dur + gap
	}

	track.Elements = packed
	return out, report, nil
}

// arrangeOrder resolves the pack order for the request: current start-time
// order for sequential/spaced, the supplied id list for manual with any
// unlisted elements appended in start-time order.
func arrangeOrder(track *timeline.Track, req ArrangeRequest) ([]timeline.Element, error) {
	current := make([]timeline.Element, len(track.Elements))
	copy(current, track.Elements)
	sort.SliceStable(current, func(i, j int) bool {
		return current[i].StartTime < current[j].StartTime
	})

	if req.Mode != ModeManual {
		return current, nil
	}

	byID := make(map[string]timeline.Element, len(current))
	for _, el := range current {
		byID[el.ID] = el
	}

	ordered := make([]timeline.Element, 0, len(current))
	taken := make(map[string]bool, len(req.Order))
	for _, id := range req.Order {
		el, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s not on track %s", ErrUnknownElementID, id, track.ID)
		}
		if taken[id] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrUnknownElementID, id)
		}
		taken[id] = true
		ordered = append(ordered, el)
	}
	for _, el := range current {
		if !taken[el.ID] {
			ordered = append(ordered, el)
		}
	}
	return ordered, nil
}
