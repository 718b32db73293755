package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"fmt"
)

type finalizer struct {
	logger        outbound.LoggerPort
	runner        *BatchRunner
	metadataStore outbound.MetadataStorePort
}

func NewFinalizer(logger outbound.LoggerPort, runner *BatchRunner, metadataStore outbound.MetadataStorePort) inbound.StageWorkerPort {
	return &finalizer{
		logger:        logger,
		runner:        runner,
		metadataStore: metadataStore,
	}
}

func (s *finalizer) Name() domain.StageName {
	return domain.FinalizationStage
}

func (s *finalizer) HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return s.runner.Run(ctx, s.Name(), batch, s.finalize)
}

// finalize records one video artifact. Preview and full outputs arrive independently and
// in any order; each write touches only its own field, so replays are harmless.
func (s *finalizer) finalize(ctx context.Context, notification domain.Notification) (map[string]interface{}, error) {
	kind, assetID, err := domain.ParseVideoKey(notification.Key)
	if err != nil {
		return nil, err
	}
	details := map[string]interface{}{"asset_id": assetID, "kind": kind}

	update := domain.NewMetadataUpdate(assetID)
	switch kind {
	case domain.PreviewVideo:
		update.Set(domain.AttrPreviewVideoFile, notification.Ref().URI())
	case domain.FullVideo:
		update.Set(domain.AttrFullVideoStream, domain.FullVideoStreamURI(notification.Bucket, assetID))
	}

	record, err := s.metadataStore.Update(ctx, update)
	if err != nil {
		return details, fmt.Errorf("record %s video: %w", kind, err)
	}

	if record.VideosRecorded() && record.WorkflowStatus != domain.WorkflowComplete {
		complete := domain.NewMetadataUpdate(assetID).Set(domain.AttrWorkflowStatus, domain.WorkflowComplete)
		if _, err := s.metadataStore.Update(ctx, complete); err != nil {
			return details, fmt.Errorf("mark workflow complete: %w", err)
		}
		s.logger.InfoWithFields("Asset complete", map[string]interface{}{
			"asset_id": assetID,
		})
	}
	details["complete"] = record.VideosRecorded()

	return details, nil
}
