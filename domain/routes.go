package domain

import (
	"fmt"
	"strings"
)

type StageName string

const (
	NarrationDispatchStage   StageName = "narration-dispatch"
	AudioPostProcessingStage StageName = "audio-postprocessing"
	VisualExtractionStage    StageName = "visual-extraction"
	VideoAssemblyStage       StageName = "video-assembly"
	FinalizationStage        StageName = "finalization"
)

// Route subscribes one stage to object keys with the given prefix and suffix.
type Route struct {
	Stage  StageName `json:"stage"`
	Prefix string    `json:"prefix"`
	Suffix string    `json:"suffix"`
}

func (r Route) Matches(key string) bool {
	return strings.HasPrefix(key, r.Prefix) && strings.HasSuffix(key, r.Suffix) &&
		len(key) > len(r.Prefix)+len(r.Suffix)
}

// Overlaps reports whether some key could match both routes.
func (r Route) Overlaps(other Route) bool {
	prefixes := strings.HasPrefix(r.Prefix, other.Prefix) || strings.HasPrefix(other.Prefix, r.Prefix)
	suffixes := strings.HasSuffix(r.Suffix, other.Suffix) || strings.HasSuffix(other.Suffix, r.Suffix)
	return prefixes && suffixes
}

func (r Route) String() string {
	return fmt.Sprintf("%s*%s -> %s", r.Prefix, r.Suffix, r.Stage)
}

// DefaultRoutes is the trigger table of the pipeline, in evaluation order.
var DefaultRoutes = []Route{
	{Stage: NarrationDispatchStage, Prefix: TextPrefix, Suffix: ".json"},
	{Stage: AudioPostProcessingStage, Prefix: FullAudioPrefix, Suffix: fullNarrationSuffix},
	{Stage: VisualExtractionStage, Prefix: PreviewAudioPrefix, Suffix: previewAudioSuffix},
	{Stage: VideoAssemblyStage, Prefix: VideoTriggerPrefix, Suffix: ".json"},
	{Stage: FinalizationStage, Prefix: PreviewVideoPrefix, Suffix: previewVideoSuffix},
	{Stage: FinalizationStage, Prefix: FullVideoPrefix, Suffix: ".m3u8"},
}

// ValidateRoutes fails when any two routes could both match one key.
func ValidateRoutes(routes []Route) error {
	for i := range routes {
		for j := i + 1; j < len(routes); j++ {
			if routes[i].Overlaps(routes[j]) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingRoutes, routes[i], routes[j])
			}
		}
	}
	return nil
}

// ResolveRoute returns the single route matching key.
func ResolveRoute(routes []Route, key string) (Route, error) {
	for _, r := range routes {
		if r.Matches(key) {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("%w: %s", ErrNoRoute, key)
}
