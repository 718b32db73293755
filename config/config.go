package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"strconv"
	"time"
)

const configPathEnv = "PIPELINE_CONFIG"

// Config is read once per process and injected into every component.
type Config struct {
	S3        S3Config        `yaml:"s3"`
	Dynamo    DynamoConfig    `yaml:"dynamo"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Narration NarrationConfig `yaml:"narration"`
	Video     VideoConfig     `yaml:"video"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Server    ServerConfig    `yaml:"server"`
	Worker    WorkerConfig    `yaml:"worker"`
	Log       LogConfig       `yaml:"log"`
}

// Load layers defaults, the optional YAML file, .env and the process environment.
// An empty path falls back to PIPELINE_CONFIG.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.S3.applyEnv()
	c.Dynamo.applyEnv()
	c.SQLite.applyEnv()
	c.Metadata.applyEnv()
	c.Video.applyEnv()
	c.Server.applyEnv()
	c.Log.applyEnv()
	c.Narration.applyEnv()

	if err := c.Pipeline.applyEnv(); err != nil {
		return err
	}
	if err := c.Scraper.applyEnv(); err != nil {
		return err
	}
	return c.Worker.applyEnv()
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if err := c.S3.Validate(); err != nil {
		return err
	}

	switch c.Metadata.Backend {
	case DynamoBackend:
		if err := c.Dynamo.Validate(); err != nil {
			return err
		}
	case SQLiteBackend:
		if err := c.SQLite.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("METADATA_BACKEND must be %q or %q, got %q", DynamoBackend, SQLiteBackend, c.Metadata.Backend)
	}

	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Worker.Validate()
}

func defaultConfig() Config {
	return Config{
		Metadata: MetadataConfig{Backend: DynamoBackend},
		SQLite:   SQLiteConfig{Path: "pipeline.db"},
		Pipeline: PipelineConfig{
			PreviewDurationSeconds: 30,
			FadeOutDurationSeconds: 3,
			AdsURL:                 "https://ads.amazon.com",
			SubtitleFooter:         "More info at aws.amazon.com",
			MaxImages:              4,
			WorkDir:                os.TempDir(),
			FFmpegPath:             "ffmpeg",
			FFprobePath:            "ffprobe",
		},
		Narration: NarrationConfig{OutputFormat: "mp3", TextType: "text"},
		Video: VideoConfig{
			Application:      "VOD",
			ImageWidth:       1100,
			ImageHeight:      800,
			ImageOffset:      10,
			CaptionFontColor: "BLACK",
			CaptionYPosition: 900,
		},
		Scraper: ScraperConfig{Timeout: 30 * time.Second, UserAgent: "article-narration-pipeline/1.0"},
		Server:  ServerConfig{Addr: ":8080"},
		Worker: WorkerConfig{
			PoolSize:          16,
			FanoutPoolSize:    64,
			WatchPoolSize:     256,
			InvocationTimeout: 5 * time.Minute,
			StuckAfter:        30 * time.Minute,
			WatchInterval:     2 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

func envString(target *string, name string) {
	if v := os.Getenv(name); v != "" {
		*target = v
	}
}

func envInt(target *int, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", name, err)
	}
	*target = parsed
	return nil
}

func envDuration(target *time.Duration, name string) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration: %w", name, err)
	}
	*target = parsed
	return nil
}
