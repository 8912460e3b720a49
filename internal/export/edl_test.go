package export

import (
	"strings"
	"testing"

	"github.com/qcut/timeline-agent/internal/timeline"
)

func TestGenerateEDL_SingleElement(t *testing.T) {
	track := &timeline.Track{ID: "v", Kind: timeline.TrackVideo, Elements: []timeline.Element{
		{ID: "e1", SourceID: "src-1", Name: "Intro", StartTime: 0, EndTime: 2},
	}}

	edl, count := GenerateEDL(track, "Project One", 30.0)

	if count != 1 {
		t.Fatalf("clip count = %d, want 1", count)
	}
	if !strings.Contains(edl, "TITLE: Project One") {
		t.Fatalf("missing title in EDL: %q", edl)
	}
	if !strings.Contains(edl, "FCM: NON-DROP FRAME") {
		t.Fatalf("missing non-drop-frame FCM: %q", edl)
	}
	if !strings.Contains(edl, "001  AX       V     C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00") {
		t.Fatalf("missing event line: %q", edl)
	}
	if !strings.Contains(edl, "* FROM CLIP NAME:  Intro") {
		t.Fatalf("missing clip name comment: %q", edl)
	}
	if !strings.Contains(edl, "* SOURCE ID:  src-1") {
		t.Fatalf("missing source id comment: %q", edl)
	}
}

func TestGenerateEDL_TrimmedElement(t *testing.T) {
	// An element showing source content from 1.0s onward: source-in moves,
	// record times stay at the element's timeline position.
	track := &timeline.Track{ID: "v", Kind: timeline.TrackVideo, Elements: []timeline.Element{
		{ID: "e1", SourceID: "src-1", StartTime: 5, EndTime: 7, TrimStart: 1},
	}}

	edl, _ := GenerateEDL(track, "Trimmed", 30.0)

	if !strings.Contains(edl, "001  AX       V     C        00:00:01:00 00:00:03:00 00:00:05:00 00:00:07:00") {
		t.Fatalf("event line mismatch: %q", edl)
	}
}

func TestGenerateEDL_AudioChannel(t *testing.T) {
	track := &timeline.Track{ID: "a", Kind: timeline.TrackAudio, Elements: []timeline.Element{
		{ID: "e1", SourceID: "src-1", StartTime: 0, EndTime: 1},
	}}

	edl, _ := GenerateEDL(track, "Audio", 30.0)
	if !strings.Contains(edl, " A     C        ") {
		t.Fatalf("expected audio channel in event line: %q", edl)
	}
}

func TestGenerateEDL_DropFrame(t *testing.T) {
	track := &timeline.Track{ID: "v", Kind: timeline.TrackVideo, Elements: []timeline.Element{
		{ID: "e1", SourceID: "src-1", StartTime: 0, EndTime: 1},
	}}

	edl, _ := GenerateEDL(track, "Drop", 29.97)
	if !strings.Contains(edl, "FCM: DROP FRAME") {
		t.Fatalf("expected drop frame FCM, got: %q", edl)
	}
}

func TestSecondsToTimecode(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     int
		want    string
	}{
		{name: "zero", seconds: 0, fps: 30, want: "00:00:00:00"},
		{name: "one second", seconds: 1, fps: 30, want: "00:00:01:00"},
		{name: "fractional second", seconds: 0.5, fps: 30, want: "00:00:00:15"},
		{name: "one minute", seconds: 60, fps: 30, want: "00:01:00:00"},
		{name: "one hour", seconds: 3600, fps: 30, want: "01:00:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := secondsToTimecode(tc.seconds, tc.fps)
			if got != tc.want {
				t.Fatalf("secondsToTimecode(%v, %d) = %q, want %q", tc.seconds, tc.fps, got, tc.want)
			}
		})
	}
}
