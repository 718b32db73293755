package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

type ffmpegImageProcessor struct {
	logger         outbound.LoggerPort
	pipelineConfig *config.PipelineConfig
}

// NewFFmpegImageProcessor converts images to whatever format the output extension names.
func NewFFmpegImageProcessor(logger outbound.LoggerPort, pipelineConfig *config.PipelineConfig) outbound.ImageProcessorPort {
	return &ffmpegImageProcessor{
		logger:         logger,
		pipelineConfig: pipelineConfig,
	}
}

func (p *ffmpegImageProcessor) Convert(ctx context.Context, inputPath string, outputPath string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.pipelineConfig.FFmpegPath, "-y", "-i", inputPath, outputPath)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		p.logger.ErrorWithFields(err, "error converting image", map[string]interface{}{
			"input":  inputPath,
			"stderr": tail(stderr.String(), 2048),
		})
		return err
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("converted image not produced: %w", err)
	}
	return nil
}
