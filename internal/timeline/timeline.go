// Package timeline defines the project timeline data model: a timeline is an
// ordered set of tracks, each holding elements positioned in seconds on the
// track. The edit engine consumes and produces these values; it never mutates
// a timeline in place.
package timeline

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
	TrackText  TrackKind = "text"
)

// Element is the atomic edit unit. Times are absolute seconds on the track.
// TrimStart/TrimEnd are the amounts trimmed off the start and end of the
// underlying source material; the engine adjusts them but never dereferences
// SourceID.
type Element struct {
	ID        string  `json:"id"`
	SourceID  string  `json:"source_id"`
	Name      string  `json:"name,omitempty"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	TrimStart float64 `json:"trim_start,omitempty"`
	TrimEnd   float64 `json:"trim_end,omitempty"`
}

func (e Element) Duration() float64 {
	return e.EndTime - e.StartTime
}

// Overlaps reports whether the half-open intervals [e.StartTime, e.EndTime)
// and [o.StartTime, o.EndTime) intersect.
func (e Element) Overlaps(o Element) bool {
	return e.StartTime < o.EndTime && o.StartTime < e.EndTime
}

// Track holds elements in start-time order. AllowsOverlap is caller
// configuration (text/overlay tracks typically permit it); the engine only
// enforces non-overlap where it is false.
type Track struct {
	ID            string    `json:"id"`
	Index         int       `json:"index"`
	Kind          TrackKind `json:"kind"`
	AllowsOverlap bool      `json:"allows_overlap,omitempty"`
	Elements      []Element `json:"elements"`
}

type Timeline struct {
	Name   string  `json:"name"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
	Tracks []Track `json:"tracks"`
}

// Duration is derived, never stored: the latest end time across all tracks.
func (t *Timeline) Duration() float64 {
	var max float64
	for _, tr := range t.Tracks {
		for _, el := range tr.Elements {
			if el.EndTime > max {
				max = el.EndTime
			}
		}
	}
	return max
}

// Clone deep-copies the timeline so engine transforms can derive a new value
// without aliasing the caller's snapshot.
func (t *Timeline) Clone() *Timeline {
	out := *t
	out.Tracks = make([]Track, len(t.Tracks))
	for i, tr := range t.Tracks {
		out.Tracks[i] = tr
		out.Tracks[i].Elements = make([]Element, len(tr.Elements))
		copy(out.Tracks[i].Elements, tr.Elements)
	}
	return &out
}

// Track returns the track with the given id, or nil.
func (t *Timeline) Track(id string) *Track {
	for i := range t.Tracks {
		if t.Tracks[i].ID == id {
			return &t.Tracks[i]
		}
	}
	return nil
}

// FindElement locates an element by id across all tracks.
func (t *Timeline) FindElement(id string) (track *Track, index int, ok bool) {
	for i := range t.Tracks {
		for j := range t.Tracks[i].Elements {
			if t.Tracks[i].Elements[j].ID == id {
				return &t.Tracks[i], j, true
			}
		}
	}
	return nil, 0, false
}

// SortElements orders a track's elements by start time. Stable so equal
// starts (possible on overlap-permitting tracks) keep their relative order.
func (tr *Track) SortElements() {
	sort.SliceStable(tr.Elements, func(i, j int) bool {
		return tr.Elements[i].StartTime < tr.Elements[j].StartTime
	})
}

// RemoveElement deletes the element at index i preserving order.
func (tr *Track) RemoveElement(i int) {
	tr.Elements = append(tr.Elements[:i], tr.Elements[i+1:]...)
}

// InsertElement places el in start-time order.
func (tr *Track) InsertElement(el Element) {
	tr.Elements = append(tr.Elements, el)
	tr.SortElements()
}

// Validate checks the structural invariants that must hold before and after
// every engine operation: positive durations, non-negative starts, start-time
// ordering, non-overlap on tracks that do not permit it, and element id
// uniqueness across the whole timeline.
func (t *Timeline) Validate() error {
	seen := make(map[string]struct{})
	for _, tr := range t.Tracks {
		for i, el := range tr.Elements {
			if el.ID == "" {
				return fmt.Errorf("track %s: element %d has empty id", tr.ID, i)
			}
			if _, dup := seen[el.ID]; dup {
				return fmt.Errorf("duplicate element id %s", el.ID)
			}
			seen[el.ID] = struct{}{}
			if el.StartTime < 0 {
				return fmt.Errorf("element %s: negative start time %v", el.ID, el.StartTime)
			}
			if el.Duration() <= 0 {
				return fmt.Errorf("element %s: non-positive duration %v", el.ID, el.Duration())
			}
			if i == 0 {
				continue
			}
			prev := tr.Elements[i-1]
			if el.StartTime < prev.StartTime {
				return fmt.Errorf("track %s: elements out of order at %s", tr.ID, el.ID)
			}
			if !tr.AllowsOverlap && el.StartTime < prev.EndTime {
				return fmt.Errorf("track %s: elements %s and %s overlap", tr.ID, prev.ID, el.ID)
			}
		}
	}
	return nil
}

// NewID mints a stable element/track identifier. Ids are never reused, even
// after deletion, so external references stay valid-or-stale rather than
// silently pointing at an unrelated element.
func NewID() string {
	return uuid.NewString()
}
