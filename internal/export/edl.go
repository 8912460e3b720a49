// Package export renders an edited timeline track as a CMX3600-style EDL so
// the result of structural edits can be taken into an NLE without a render
// pipeline. Source-in timecodes come from each element's trim offset.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/qcut/timeline-agent/internal/timeline"
)

func GenerateEDL(track *timeline.Track, title string, frameRate float64) (string, int) {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	channel := "V"
	if track.Kind == timeline.TrackAudio {
		channel = "A"
	}

	count := 0
	for _, el := range track.Elements {
		srcIn := secondsToTimecode(el.TrimStart, fps)
		srcOut := secondsToTimecode(el.TrimStart+el.Duration(), fps)
		recIn := secondsToTimecode(el.StartTime, fps)
		recOut := secondsToTimecode(el.EndTime, fps)

		count++
		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", count, "AX", channel, srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName(el)),
			fmt.Sprintf("* SOURCE ID:  %s", el.SourceID),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n"), count
}

func clipName(el timeline.Element) string {
	if el.Name != "" {
		return el.Name
	}
	return el.ID
}

func secondsToTimecode(seconds float64, fps int) string {
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
