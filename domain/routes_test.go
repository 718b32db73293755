package domain

import (
	"errors"
	"testing"
)

func TestDefaultRoutes_DoNotOverlap(t *testing.T) {
	t.Parallel()

	if err := ValidateRoutes(DefaultRoutes); err != nil {
		t.Fatalf("default routes overlap: %v", err)
	}
}

func TestValidateRoutes_Overlap(t *testing.T) {
	t.Parallel()

	routes := []Route{
		{Stage: NarrationDispatchStage, Prefix: "text/", Suffix: ".json"},
		{Stage: FinalizationStage, Prefix: "text/archive/", Suffix: ""},
	}
	if err := ValidateRoutes(routes); !errors.Is(err, ErrOverlappingRoutes) {
		t.Fatalf("expected ErrOverlappingRoutes, got %v", err)
	}
}

func TestResolveRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want StageName
	}{
		{"text/abc.json", NarrationDispatchStage},
		{"audio/full/abc.json/task.mp3", AudioPostProcessingStage},
		{"audio/preview/abc.json/task.wav", VisualExtractionStage},
		{"video-trigger/abc.json", VideoAssemblyStage},
		{"output/preview/abc.mp4", FinalizationStage},
		{"output/full/hls/abc/templateabc.m3u8", FinalizationStage},
	}
	for _, tt := range tests {
		route, err := ResolveRoute(DefaultRoutes, tt.key)
		if err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		if route.Stage != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.key, tt.want, route.Stage)
		}
	}

	for _, key := range []string{"srt/preview/abc.json.srt", "vmap/abc.json", "image/output/abc.json/a.jpg.tga", "text/.json"} {
		if _, err := ResolveRoute(DefaultRoutes, key); !errors.Is(err, ErrNoRoute) {
			t.Fatalf("%s: expected ErrNoRoute, got %v", key, err)
		}
	}
}
