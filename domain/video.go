package domain

import (
	"fmt"
	"math"
)

// ImageSlot places one image on the full video timeline.
type ImageSlot struct {
	ImageURI      string
	StartTimecode string
	DurationMs    int64
}

// FrameTimecode formats whole seconds as an HH:MM:SS:FF timecode at frame zero.
func FrameTimecode(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d:00", seconds/3600, (seconds/60)%60, seconds%60)
}

// ImageSchedule spaces images evenly over the narration, one after another from zero.
func ImageSchedule(images []string, narrationSeconds float64) []ImageSlot {
	if len(images) == 0 {
		return nil
	}
	whole := int64(math.Floor(narrationSeconds))
	slot := whole / int64(len(images))
	slots := make([]ImageSlot, 0, len(images))
	for i, image := range images {
		slots = append(slots, ImageSlot{
			ImageURI:      image,
			StartTimecode: FrameTimecode(slot * int64(i)),
			DurationMs:    slot * 1000,
		})
	}
	return slots
}

// FullVideoEndTimecode clips the full video one second after the narration ends.
func FullVideoEndTimecode(narrationSeconds float64) string {
	return FrameTimecode(int64(math.Floor(narrationSeconds)) + 1)
}

type VideoJob struct {
	ID          string
	Kind        VideoKind
	Destination string
}
