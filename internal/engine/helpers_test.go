package engine

import (
	"testing"

	"github.com/qcut/timeline-agent/internal/timeline"
)

func el(id string, start, end float64) timeline.Element {
	return timeline.Element{ID: id, SourceID: "src-" + id, StartTime: start, EndTime: end}
}

func videoTrack(id string, elements ...timeline.Element) timeline.Track {
	return timeline.Track{ID: id, Kind: timeline.TrackVideo, Elements: elements}
}

func audioTrack(id string, elements ...timeline.Element) timeline.Track {
	return timeline.Track{ID: id, Kind: timeline.TrackAudio, Elements: elements}
}

func makeTimeline(tracks ...timeline.Track) *timeline.Timeline {
	for i := range tracks {
		tracks[i].Index = i
	}
	return &timeline.Timeline{Name: "test", Width: 1920, Height: 1080, FPS: 30, Tracks: tracks}
}

func checkInvariants(t *testing.T, tl *timeline.Timeline) {
	t.Helper()
	if err := tl.Validate(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

// elementOn fetches an element by id and fails the test if it is gone.
func elementOn(t *testing.T, tl *timeline.Timeline, id string) timeline.Element {
	t.Helper()
	track, idx, ok := tl.FindElement(id)
	if !ok {
		t.Fatalf("element %s not found", id)
	}
	return track.Elements[idx]
}

func hasElement(tl *timeline.Timeline, id string) bool {
	_, _, ok := tl.FindElement(id)
	return ok
}
