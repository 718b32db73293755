package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type ffmpegAudioProcessor struct {
	logger         outbound.LoggerPort
	pipelineConfig *config.PipelineConfig
}

func NewFFmpegAudioProcessor(logger outbound.LoggerPort, pipelineConfig *config.PipelineConfig) outbound.AudioProcessorPort {
	return &ffmpegAudioProcessor{
		logger:         logger,
		pipelineConfig: pipelineConfig,
	}
}

func (a *ffmpegAudioProcessor) Duration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.pipelineConfig.FFprobePath, "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)

	out, err := cmd.Output()
	if err != nil {
		a.logger.Error(err, "error getting audio duration")
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		a.logger.Error(err, "error parsing audio duration")
		return 0, err
	}

	return duration, nil
}

// FadeOut cuts the first PreviewSeconds and fades the last FadeOutSeconds of them to silence.
func (a *ffmpegAudioProcessor) FadeOut(ctx context.Context, params outbound.FadeOutParams) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.pipelineConfig.FFmpegPath, fadeOutArgs(params)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		a.logger.ErrorWithFields(err, "error creating audio preview", map[string]interface{}{
			"input":  params.InputPath,
			"stderr": tail(stderr.String(), 2048),
		})
		return err
	}

	if _, err := os.Stat(params.OutputPath); err != nil {
		return fmt.Errorf("audio preview not produced: %w", err)
	}
	return nil
}

func fadeOutArgs(params outbound.FadeOutParams) []string {
	start := params.PreviewSeconds - params.FadeOutSeconds
	return []string{
		"-y",
		"-i", params.InputPath,
		"-af", fmt.Sprintf("afade=t=out:st=%d:d=%d", start, params.FadeOutSeconds),
		"-to", strconv.Itoa(params.PreviewSeconds),
		params.OutputPath,
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
