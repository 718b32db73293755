package config

import (
	"fmt"
)

// PipelineConfig holds the stage parameters shared by intake and post-processing.
type PipelineConfig struct {
	PreviewDurationSeconds int    `yaml:"previewDurationSeconds"`
	FadeOutDurationSeconds int    `yaml:"fadeOutDurationSeconds"`
	AdsURL                 string `yaml:"adsUrl"`
	SubtitleFooter         string `yaml:"subtitleFooter"`
	MaxImages              int    `yaml:"maxImages"`
	WorkDir                string `yaml:"workDir"`
	FFmpegPath             string `yaml:"ffmpegPath"`
	FFprobePath            string `yaml:"ffprobePath"`
}

func (c *PipelineConfig) applyEnv() error {
	if err := envInt(&c.PreviewDurationSeconds, "PREVIEW_DURATION_SECONDS"); err != nil {
		return err
	}
	if err := envInt(&c.FadeOutDurationSeconds, "FADEOUT_DURATION_SECONDS"); err != nil {
		return err
	}
	if err := envInt(&c.MaxImages, "MAX_IMAGES"); err != nil {
		return err
	}
	envString(&c.AdsURL, "ADS_URL")
	envString(&c.SubtitleFooter, "SUBTITLE_FOOTER")
	envString(&c.WorkDir, "WORK_DIR")
	envString(&c.FFmpegPath, "FFMPEG_PATH")
	envString(&c.FFprobePath, "FFPROBE_PATH")
	return nil
}

func (c *PipelineConfig) Validate() error {
	if c.PreviewDurationSeconds <= 0 {
		return fmt.Errorf("PREVIEW_DURATION_SECONDS must be positive")
	}
	if c.FadeOutDurationSeconds < 0 || c.FadeOutDurationSeconds > c.PreviewDurationSeconds {
		return fmt.Errorf("FADEOUT_DURATION_SECONDS must be between 0 and PREVIEW_DURATION_SECONDS")
	}
	if c.AdsURL == "" {
		return fmt.Errorf("ADS_URL must be set")
	}
	if c.MaxImages <= 0 {
		return fmt.Errorf("MAX_IMAGES must be positive")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("WORK_DIR must be set")
	}
	return nil
}

type NarrationConfig struct {
	OutputFormat string `yaml:"outputFormat"`
	TextType     string `yaml:"textType"`
}

func (c *NarrationConfig) applyEnv() {
	envString(&c.OutputFormat, "NARRATION_OUTPUT_FORMAT")
}
