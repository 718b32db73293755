package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"encoding/json"
	"fmt"
)

type videoAssembler struct {
	logger        outbound.LoggerPort
	runner        *BatchRunner
	contentStore  outbound.ContentStorePort
	metadataStore outbound.MetadataStorePort
	videoJobs     outbound.VideoJobPort
	videoConfig   *config.VideoConfig
}

func NewVideoAssembler(logger outbound.LoggerPort, runner *BatchRunner, contentStore outbound.ContentStorePort,
	metadataStore outbound.MetadataStorePort, videoJobs outbound.VideoJobPort, videoConfig *config.VideoConfig) inbound.StageWorkerPort {
	return &videoAssembler{
		logger:        logger,
		runner:        runner,
		contentStore:  contentStore,
		metadataStore: metadataStore,
		videoJobs:     videoJobs,
		videoConfig:   videoConfig,
	}
}

func (s *videoAssembler) Name() domain.StageName {
	return domain.VideoAssemblyStage
}

func (s *videoAssembler) HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return s.runner.Run(ctx, s.Name(), batch, s.assemble)
}

func (s *videoAssembler) assemble(ctx context.Context, notification domain.Notification) (map[string]interface{}, error) {
	assetID, err := domain.AssetIDFromVideoTriggerKey(notification.Key)
	if err != nil {
		return nil, err
	}
	details := map[string]interface{}{"asset_id": assetID}

	body, err := s.contentStore.Get(ctx, notification.Ref())
	if err != nil {
		return details, fmt.Errorf("fetch video trigger: %w", err)
	}

	var trigger domain.VideoTrigger
	if err := json.Unmarshal(body, &trigger); err != nil {
		return details, fmt.Errorf("parse video trigger: %w", err)
	}

	metadata := trigger.Metadata
	if metadata.AudioPreviewStatus != domain.StageStatusDone || metadata.AudioPreview == "" {
		return details, fmt.Errorf("audio preview for %s is not available", assetID)
	}
	if metadata.FullNarrationFile == "" {
		return details, fmt.Errorf("full narration for %s is not recorded", assetID)
	}
	images := metadata.PostProducedImagesS3Paths
	if len(images) == 0 {
		return details, fmt.Errorf("no post-produced images for %s", assetID)
	}

	sourceBucket := trigger.Bucket
	if sourceBucket == "" {
		sourceBucket = notification.Bucket
	}
	subtitles := domain.ObjectRef{Bucket: sourceBucket, Key: domain.SubtitleKey(assetID)}

	preview, err := s.videoJobs.SubmitPreview(ctx, outbound.PreviewVideoParams{
		AssetID:     assetID,
		AudioURI:    metadata.AudioPreview,
		SubtitleURI: subtitles.URI(),
		ImageURIs:   images,
		Destination: domain.PreviewVideoDestination(s.videoConfig.DestinationBucket, assetID),
	})
	if err != nil {
		s.recordFailure(ctx, domain.NewMetadataUpdate(assetID))
		return details, fmt.Errorf("submit preview video: %w", err)
	}
	details["preview_job"] = preview.ID

	full, err := s.videoJobs.SubmitFull(ctx, outbound.FullVideoParams{
		AssetID:      assetID,
		AudioURI:     metadata.FullNarrationFile,
		Images:       domain.ImageSchedule(images, metadata.FullNarrationDurationInSeconds),
		EndTimecode:  domain.FullVideoEndTimecode(metadata.FullNarrationDurationInSeconds),
		NameModifier: assetID.Base(),
		Destination:  domain.FullVideoDestination(s.videoConfig.DestinationBucket, assetID),
	})
	if err != nil {
		s.recordFailure(ctx, domain.NewMetadataUpdate(assetID).Set(domain.AttrPreviewVideoJob, preview.ID))
		return details, fmt.Errorf("submit full video: %w", err)
	}
	details["full_job"] = full.ID

	update := domain.NewMetadataUpdate(assetID).
		Set(domain.AttrPreviewVideoJob, preview.ID).
		Set(domain.AttrFullVideoJob, full.ID).
		Set(domain.AttrVideoStatus, domain.StageStatusSubmitted)
	if _, err := s.metadataStore.Update(ctx, update); err != nil {
		return details, fmt.Errorf("record video jobs: %w", err)
	}

	return details, nil
}

func (s *videoAssembler) recordFailure(ctx context.Context, update *domain.MetadataUpdate) {
	update.Set(domain.AttrVideoStatus, domain.StageStatusFailed)
	if _, err := s.metadataStore.Update(ctx, update); err != nil {
		s.logger.ErrorWithFields(err, "Failed to record video failure", map[string]interface{}{
			"asset_id": update.AssetID,
		})
	}
}
