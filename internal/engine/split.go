package engine

import (
	"fmt"

	"github.com/qcut/timeline-agent/internal/timeline"
)

// SplitMode selects what survives a split.
type SplitMode string

const (
	// ModeSplit keeps both halves as two new elements; the original id is
	// retired.
	ModeSplit SplitMode = "split"
	// ModeKeepLeft trims the element in place, discarding everything after
	// the split time. The element keeps its id.
	ModeKeepLeft SplitMode = "keepLeft"
	// ModeKeepRight trims the element in place, discarding everything before
	// the split time. The element keeps its id.
	ModeKeepRight SplitMode = "keepRight"
)

func (m SplitMode) valid() bool {
	switch m {
	case ModeSplit, ModeKeepLeft, ModeKeepRight:
		return true
	}
	return false
}

// SplitElement cuts one element at an absolute time strictly inside its
// range. Trim offsets advance so each surviving piece still shows the same
// source material it did before the split.
func SplitElement(tl *timeline.Timeline, elementID string, splitTime float64, mode SplitMode) (*timeline.Timeline, *SplitReport, error) {
	if mode == "" {
		mode = ModeSplit
	}
	if !mode.valid() {
		return nil, nil, fmt.Errorf("invalid split mode %q", mode)
	}

	out := tl.Clone()
	track, idx, ok := out.FindElement(elementID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrElementNotFound, elementID)
	}
	el := &track.Elements[idx]

	if splitTime <= el.StartTime || splitTime >= el.EndTime {
		return nil, nil, fmt.Errorf("%w: %v not inside (%v, %v)", ErrSplitOutOfBounds, splitTime, el.StartTime, el.EndTime)
	}

	offset := splitTime - el.StartTime
	remainder := el.EndTime - splitTime

	switch mode {
	case ModeKeepLeft:
		el.EndTime = splitTime
		el.TrimEnd += remainder
		return out, &SplitReport{FirstElementID: el.ID}, nil

	case ModeKeepRight:
		el.StartTime = splitTime
		el.TrimStart += offset
		return out, &SplitReport{FirstElementID: el.ID}, nil
	}

	left := timeline.Element{
		ID:        timeline.NewID(),
		SourceID:  el.SourceID,
		Name:      el.Name,
		StartTime: el.StartTime,
		EndTime:   splitTime,
		TrimStart: el.TrimStart,
		TrimEnd:   el.TrimEnd + remainder,
	}
	right := timeline.Element{
		ID:        timeline.NewID(),
		SourceID:  el.SourceID,
		Name:      el.Name,
		StartTime: splitTime,
		EndTime:   el.EndTime,
		TrimStart: el.TrimStart + offset,
		TrimEnd:   el.TrimEnd,
	}

	retired := el.ID
	track.RemoveElement(idx)
	track.InsertElement(left)
	track.InsertElement(right)

	return out, &SplitReport{
		FirstElementID:  left.ID,
		SecondElementID: right.ID,
		RetiredIDs:      []string{retired},
	}, nil
}
