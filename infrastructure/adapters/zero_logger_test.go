package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestZerologWrapper_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newZerologWrapper(&buf, "warn")

	logger.Info("hidden")
	logger.DebugWithFields("hidden", map[string]interface{}{"a": 1})
	logger.ErrorWithFields(errors.New("boom"), "Failed to process item", map[string]interface{}{"stage": "narration-dispatch"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %q", buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal("Failed to decode log line:", err)
	}
	if entry["level"] != "error" || entry["error"] != "boom" || entry["stage"] != "narration-dispatch" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatal("entries must be timestamped")
	}
}

func TestZerologWrapper_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newZerologWrapper(&buf, "chatty")

	logger.Debug("hidden")
	logger.Info("shown")

	if !strings.Contains(buf.String(), "shown") || strings.Contains(buf.String(), "hidden") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
