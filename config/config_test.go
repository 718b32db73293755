package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PIPELINE_CONFIG", "")
	t.Setenv("BUCKET_NAME", "narrations")
	t.Setenv("REGION", "eu-west-1")
	t.Setenv("DYNAMO_TABLE_NAME", "assets")
	t.Setenv("METADATA_BACKEND", "")
	t.Setenv("PREVIEW_DURATION_SECONDS", "")
	t.Setenv("INVOCATION_TIMEOUT", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Pipeline.PreviewDurationSeconds != 30 || cfg.Pipeline.FadeOutDurationSeconds != 3 {
		t.Fatalf("unexpected durations: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.AdsURL != "https://ads.amazon.com" {
		t.Fatalf("unexpected ads url %s", cfg.Pipeline.AdsURL)
	}
	if cfg.Metadata.Backend != DynamoBackend {
		t.Fatalf("unexpected backend %s", cfg.Metadata.Backend)
	}
	if cfg.Worker.InvocationTimeout != 5*time.Minute {
		t.Fatalf("unexpected invocation timeout %s", cfg.Worker.InvocationTimeout)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	setBaseEnv(t)

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	body := `
pipeline:
  previewDurationSeconds: 20
  maxImages: 2
worker:
  invocationTimeout: 1m
metadata:
  backend: sqlite
sqlite:
  path: /tmp/assets.db
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PREVIEW_DURATION_SECONDS", "25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Pipeline.PreviewDurationSeconds != 25 {
		t.Fatalf("env should override file, got %d", cfg.Pipeline.PreviewDurationSeconds)
	}
	if cfg.Pipeline.MaxImages != 2 {
		t.Fatalf("file should override default, got %d", cfg.Pipeline.MaxImages)
	}
	if cfg.Pipeline.FadeOutDurationSeconds != 3 {
		t.Fatalf("unset values keep defaults, got %d", cfg.Pipeline.FadeOutDurationSeconds)
	}
	if cfg.Worker.InvocationTimeout != time.Minute {
		t.Fatalf("unexpected invocation timeout %s", cfg.Worker.InvocationTimeout)
	}
	if cfg.Metadata.Backend != SQLiteBackend || cfg.SQLite.Path != "/tmp/assets.db" {
		t.Fatalf("unexpected metadata settings: %+v %+v", cfg.Metadata, cfg.SQLite)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "bucket", env: map[string]string{"BUCKET_NAME": ""}, want: "BUCKET_NAME must be set"},
		{name: "table", env: map[string]string{"DYNAMO_TABLE_NAME": ""}, want: "DYNAMO_TABLE_NAME must be set"},
		{name: "backend", env: map[string]string{"METADATA_BACKEND": "redis"}, want: "METADATA_BACKEND"},
		{name: "duration", env: map[string]string{"PREVIEW_DURATION_SECONDS": "soon"}, want: "must be an integer"},
		{name: "timeout", env: map[string]string{"INVOCATION_TIMEOUT": "5"}, want: "must be a duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestVideoConfig_Validate(t *testing.T) {
	video := VideoConfig{DestinationBucket: "out", TemplateURL: "s3://t/full.mov", PreviewTemplateURL: "s3://t/preview.mov"}
	if err := video.Validate(); err == nil || !strings.Contains(err.Error(), "MEDIACONVERT_ROLE") {
		t.Fatalf("expected role error, got %v", err)
	}

	video.Role = "arn:aws:iam::123456789012:role/convert"
	if err := video.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
