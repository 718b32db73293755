package config

import (
	"fmt"
)

// VideoConfig drives the transcoding jobs submitted by the video assembly stage.
type VideoConfig struct {
	DestinationBucket  string `yaml:"destinationBucket"`
	Role               string `yaml:"role"`
	Endpoint           string `yaml:"endpoint"`
	Application        string `yaml:"application"`
	TemplateURL        string `yaml:"templateUrl"`
	PreviewTemplateURL string `yaml:"previewTemplateUrl"`
	// Job settings files; empty uses the built-in templates.
	PreviewJobSettings string `yaml:"previewJobSettings"`
	FullJobSettings    string `yaml:"fullJobSettings"`
	ImageWidth         int64  `yaml:"imageWidth"`
	ImageHeight        int64  `yaml:"imageHeight"`
	ImageOffset        int64  `yaml:"imageOffset"`
	CaptionFontColor   string `yaml:"captionFontColor"`
	CaptionYPosition   int64  `yaml:"captionYPosition"`
}

func (c *VideoConfig) applyEnv() {
	envString(&c.DestinationBucket, "DESTINATION_BUCKET")
	envString(&c.Role, "MEDIACONVERT_ROLE")
	envString(&c.Endpoint, "MEDIACONVERT_ENDPOINT")
	envString(&c.Application, "MEDIACONVERT_APPLICATION")
	envString(&c.TemplateURL, "TEMPLATE_S3_URL")
	envString(&c.PreviewTemplateURL, "TEMPLATE_S3_URL_PREVIEW")
	envString(&c.PreviewJobSettings, "PREVIEW_JOB_SETTINGS")
	envString(&c.FullJobSettings, "FULL_JOB_SETTINGS")
}

// Validate is only required by processes that submit video jobs.
func (c *VideoConfig) Validate() error {
	if c.DestinationBucket == "" {
		return fmt.Errorf("DESTINATION_BUCKET must be set")
	}
	if c.Role == "" {
		return fmt.Errorf("MEDIACONVERT_ROLE must be set")
	}
	if c.TemplateURL == "" {
		return fmt.Errorf("TEMPLATE_S3_URL must be set")
	}
	if c.PreviewTemplateURL == "" {
		return fmt.Errorf("TEMPLATE_S3_URL_PREVIEW must be set")
	}
	return nil
}
