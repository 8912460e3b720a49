package engine

// ElementSummary is the caller-facing view of a surviving element after an
// edit: enough to update a UI or build a follow-up request without refetching
// the whole timeline.
type ElementSummary struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// CutReport describes the outcome of a batch cut on one element.
type CutReport struct {
	CutsApplied          int              `json:"cuts_applied"`
	ElementsRemoved      int              `json:"elements_removed"`
	RemainingElements    []ElementSummary `json:"remaining_elements"`
	TotalRemovedDuration float64          `json:"total_removed_duration"`
	RetiredIDs           []string         `json:"retired_ids,omitempty"`
}

// RangeDeleteReport describes the outcome of a time-range deletion.
// TotalRemovedDuration is the range length, reported once regardless of how
// many tracks were compacted.
type RangeDeleteReport struct {
	DeletedElements      int      `json:"deleted_elements"`
	SplitElements        int      `json:"split_elements"`
	TotalRemovedDuration float64  `json:"total_removed_duration"`
	RetiredIDs           []string `json:"retired_ids,omitempty"`
}

// SplitReport carries the ids resulting from a split. SecondElementID is
// empty for the keepLeft/keepRight trim modes, which create no new element.
type SplitReport struct {
	FirstElementID  string   `json:"first_element_id"`
	SecondElementID string   `json:"second_element_id,omitempty"`
	RetiredIDs      []string `json:"retired_ids,omitempty"`
}

// MoveReport summarizes the relocated element.
type MoveReport struct {
	Element ElementSummary `json:"element"`
	TrackID string         `json:"track_id"`
}

// ArrangedElement records one element's new start after an arrange.
type ArrangedElement struct {
	ElementID    string  `json:"element_id"`
	NewStartTime float64 `json:"new_start_time"`
}

// ArrangeReport lists the packed positions in pack order.
type ArrangeReport struct {
	Arranged []ArrangedElement `json:"arranged"`
}
