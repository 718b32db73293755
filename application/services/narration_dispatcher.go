package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type narrationDispatcher struct {
	logger          outbound.LoggerPort
	runner          *BatchRunner
	contentStore    outbound.ContentStorePort
	metadataStore   outbound.MetadataStorePort
	narrationEngine outbound.NarrationEnginePort
	s3Config        *config.S3Config
}

func NewNarrationDispatcher(logger outbound.LoggerPort, runner *BatchRunner, contentStore outbound.ContentStorePort,
	metadataStore outbound.MetadataStorePort, narrationEngine outbound.NarrationEnginePort, s3Config *config.S3Config) inbound.StageWorkerPort {
	return &narrationDispatcher{
		logger:          logger,
		runner:          runner,
		contentStore:    contentStore,
		metadataStore:   metadataStore,
		narrationEngine: narrationEngine,
		s3Config:        s3Config,
	}
}

func (s *narrationDispatcher) Name() domain.StageName {
	return domain.NarrationDispatchStage
}

func (s *narrationDispatcher) HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return s.runner.Run(ctx, s.Name(), batch, s.dispatch)
}

func (s *narrationDispatcher) dispatch(ctx context.Context, notification domain.Notification) (map[string]interface{}, error) {
	assetID, err := domain.AssetIDFromDocumentKey(notification.Key)
	if err != nil {
		return nil, err
	}

	outputPrefix, err := domain.NarrationOutputPrefix(notification.Key)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"asset_id": assetID}

	body, err := s.contentStore.Get(ctx, notification.Ref())
	if err != nil {
		return details, fmt.Errorf("fetch document: %w", err)
	}

	var document domain.Document
	if err := json.Unmarshal(body, &document); err != nil {
		return details, fmt.Errorf("parse document: %w", err)
	}

	job, err := s.narrationEngine.Submit(ctx, outbound.NarrationRequest{
		Text:         document.Text,
		VoiceID:      document.VoiceID,
		Engine:       document.Engine,
		LanguageCode: document.LanguageCode,
		OutputBucket: s.s3Config.BucketName,
		OutputPrefix: outputPrefix,
	})
	if err != nil {
		return details, fmt.Errorf("submit narration: %w", err)
	}
	details["task_id"] = job.TaskID
	details["output_uri"] = job.OutputURI

	_, err = s.metadataStore.Update(ctx, domain.NarrationSubmitted(assetID))
	if errors.Is(err, domain.ErrStaleTransition) {
		s.logger.DebugWithFields("Narration already past IN_PROGRESS", map[string]interface{}{
			"asset_id": assetID,
			"task_id":  job.TaskID,
		})
		details["narration"] = "already advanced"
		return details, nil
	}
	if err != nil {
		// The job is already running; the record stays behind and surfaces in the audit.
		s.logger.ErrorWithFields(err, "Narration submitted but status not recorded", map[string]interface{}{
			"asset_id": assetID,
			"task_id":  job.TaskID,
		})
		return details, fmt.Errorf("mark narration in progress: %w", err)
	}

	return details, nil
}
