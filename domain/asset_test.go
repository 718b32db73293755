package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetID(t *testing.T) {
	t.Parallel()

	id := NewAssetID()
	key := DocumentKey(id)
	if !strings.HasPrefix(key, TextPrefix) || !strings.HasSuffix(key, ".json") {
		t.Fatalf("document key %s does not match the text/ .json route", key)
	}
	if strings.HasSuffix(id.Base(), ".json") {
		t.Fatalf("base kept suffix: %s", id.Base())
	}
}

func TestNarrationOutputPrefix(t *testing.T) {
	t.Parallel()

	prefix, err := NarrationOutputPrefix("text/abc.json")
	if err != nil {
		t.Fatalf("NarrationOutputPrefix: %v", err)
	}
	if prefix != "audio/full/abc.json/" {
		t.Fatalf("unexpected prefix %s", prefix)
	}

	if _, err := NarrationOutputPrefix("audio/full/abc.json"); !errors.Is(err, ErrUnexpectedKey) {
		t.Fatalf("expected ErrUnexpectedKey, got %v", err)
	}
}

func TestParseAudioKey(t *testing.T) {
	t.Parallel()

	m, err := ParseAudioKey("audio/full/abc.json/task-1.mp3")
	if err != nil {
		t.Fatalf("ParseAudioKey: %v", err)
	}
	if m.AssetID != "abc.json" || m.Format != "full" || m.Extension != "mp3" {
		t.Fatalf("unexpected media key %+v", m)
	}
	if m.PreviewAudioKey() != "audio/preview/abc.json/task-1.wav" {
		t.Fatalf("unexpected preview key %s", m.PreviewAudioKey())
	}
}

func TestParseVideoKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		kind VideoKind
		id   AssetID
	}{
		{"output/preview/abc.mp4", PreviewVideo, "abc.json"},
		{"output/full/hls/abc/templateabc.m3u8", FullVideo, "abc.json"},
		{"output/full/hls/abc/templateabc_720.m3u8", FullVideo, "abc.json"},
	}
	for _, tt := range tests {
		kind, id, err := ParseVideoKey(tt.key)
		if err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		if kind != tt.kind || id != tt.id {
			t.Fatalf("%s: got %s %s", tt.key, kind, id)
		}
	}

	if _, _, err := ParseVideoKey("output/other/abc.mp4"); !errors.Is(err, ErrUnexpectedKey) {
		t.Fatalf("expected ErrUnexpectedKey, got %v", err)
	}
}
