package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type audioPostProcessor struct {
	logger         outbound.LoggerPort
	runner         *BatchRunner
	contentStore   outbound.ContentStorePort
	metadataStore  outbound.MetadataStorePort
	audioProcessor outbound.AudioProcessorPort
	pipelineConfig *config.PipelineConfig
}

func NewAudioPostProcessor(logger outbound.LoggerPort, runner *BatchRunner, contentStore outbound.ContentStorePort,
	metadataStore outbound.MetadataStorePort, audioProcessor outbound.AudioProcessorPort,
	pipelineConfig *config.PipelineConfig) inbound.StageWorkerPort {
	return &audioPostProcessor{
		logger:         logger,
		runner:         runner,
		contentStore:   contentStore,
		metadataStore:  metadataStore,
		audioProcessor: audioProcessor,
		pipelineConfig: pipelineConfig,
	}
}

func (s *audioPostProcessor) Name() domain.StageName {
	return domain.AudioPostProcessingStage
}

func (s *audioPostProcessor) HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return s.runner.Run(ctx, s.Name(), batch, s.process)
}

func (s *audioPostProcessor) process(ctx context.Context, notification domain.Notification) (map[string]interface{}, error) {
	media, err := domain.ParseAudioKey(notification.Key)
	if err != nil {
		return nil, err
	}
	details := map[string]interface{}{"asset_id": media.AssetID}

	workDir, err := os.MkdirTemp(s.pipelineConfig.WorkDir, "audio-")
	if err != nil {
		return details, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Error(err, "error removing audio work dir")
		}
	}()

	fullPath := filepath.Join(workDir, media.FileName)
	if err := s.contentStore.Download(ctx, notification.Ref(), fullPath); err != nil {
		return details, fmt.Errorf("download narration: %w", err)
	}

	duration, err := s.audioProcessor.Duration(ctx, fullPath)
	if err != nil {
		return details, fmt.Errorf("probe narration: %w", err)
	}
	details["duration"] = duration

	update := domain.NewMetadataUpdate(media.AssetID).
		AdvanceNarration(domain.NarrationDone).
		Set(domain.AttrFullNarrationFile, notification.Ref().URI()).
		Set(domain.AttrFullNarrationDuration, duration)

	preview := domain.ObjectRef{Bucket: notification.Bucket, Key: media.PreviewAudioKey()}
	processErr := s.makePreview(ctx, fullPath, filepath.Join(workDir, media.BaseName()+".wav"), preview)
	if processErr != nil {
		s.logger.ErrorWithFields(processErr, "Failed to produce audio preview", map[string]interface{}{
			"asset_id": media.AssetID,
			"key":      notification.Key,
		})
		update.Set(domain.AttrAudioPreview, string(domain.StageStatusFailed)).
			Set(domain.AttrAudioPreviewStatus, domain.StageStatusFailed)
	} else {
		update.Set(domain.AttrAudioPreview, preview.URI()).
			Set(domain.AttrAudioPreviewStatus, domain.StageStatusDone)
		details["preview_uri"] = preview.URI()
	}

	if _, err := s.metadataStore.Update(ctx, update); err != nil {
		return details, fmt.Errorf("record narration: %w", err)
	}

	return details, processErr
}

func (s *audioPostProcessor) makePreview(ctx context.Context, inputPath string, outputPath string, target domain.ObjectRef) error {
	err := s.audioProcessor.FadeOut(ctx, outbound.FadeOutParams{
		InputPath:      inputPath,
		OutputPath:     outputPath,
		PreviewSeconds: s.pipelineConfig.PreviewDurationSeconds,
		FadeOutSeconds: s.pipelineConfig.FadeOutDurationSeconds,
	})
	if err != nil {
		return fmt.Errorf("fade out: %w", err)
	}

	if err := s.contentStore.Upload(ctx, target, outputPath, "audio/wav"); err != nil {
		return fmt.Errorf("upload preview: %w", err)
	}
	return nil
}
