package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

type visualExtractor struct {
	logger         outbound.LoggerPort
	runner         *BatchRunner
	contentStore   outbound.ContentStorePort
	metadataStore  outbound.MetadataStorePort
	contentFetcher outbound.ContentFetcher
	imageProcessor outbound.ImageProcessorPort
	pipelineConfig *config.PipelineConfig
}

func NewVisualExtractor(logger outbound.LoggerPort, runner *BatchRunner, contentStore outbound.ContentStorePort,
	metadataStore outbound.MetadataStorePort, contentFetcher outbound.ContentFetcher,
	imageProcessor outbound.ImageProcessorPort, pipelineConfig *config.PipelineConfig) inbound.StageWorkerPort {
	return &visualExtractor{
		logger:         logger,
		runner:         runner,
		contentStore:   contentStore,
		metadataStore:  metadataStore,
		contentFetcher: contentFetcher,
		imageProcessor: imageProcessor,
		pipelineConfig: pipelineConfig,
	}
}

func (s *visualExtractor) Name() domain.StageName {
	return domain.VisualExtractionStage
}

func (s *visualExtractor) HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return s.runner.Run(ctx, s.Name(), batch, s.extract)
}

func (s *visualExtractor) extract(ctx context.Context, notification domain.Notification) (map[string]interface{}, error) {
	media, err := domain.ParseAudioKey(notification.Key)
	if err != nil {
		return nil, err
	}
	assetID := media.AssetID
	details := map[string]interface{}{"asset_id": assetID}

	body, err := s.contentStore.Get(ctx, domain.ObjectRef{Bucket: notification.Bucket, Key: domain.DocumentKey(assetID)})
	if err != nil {
		return details, fmt.Errorf("fetch document: %w", err)
	}

	var document domain.Document
	if err := json.Unmarshal(body, &document); err != nil {
		return details, fmt.Errorf("parse document: %w", err)
	}

	workDir, err := os.MkdirTemp(s.pipelineConfig.WorkDir, "images-")
	if err != nil {
		return details, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			s.logger.Error(err, "error removing image work dir")
		}
	}()

	sources := document.ImagesURLs
	if len(sources) > s.pipelineConfig.MaxImages {
		sources = sources[:s.pipelineConfig.MaxImages]
	}

	processed := make([]string, 0, len(sources))
	for i, source := range sources {
		uri, err := s.processImage(ctx, workDir, notification.Bucket, assetID, source, i)
		if err != nil {
			s.logger.WarnWithFields("Skipping image", map[string]interface{}{
				"asset_id": assetID,
				"url":      source,
				"error":    err.Error(),
			})
			continue
		}
		processed = append(processed, uri)
	}
	details["images"] = len(processed)

	update := domain.NewMetadataUpdate(assetID).Set(domain.AttrImagesURLs, document.ImagesURLs)
	if len(processed) == 0 {
		update.Set(domain.AttrImagesStatus, domain.StageStatusFailed)
		if _, err := s.metadataStore.Update(ctx, update); err != nil {
			s.logger.ErrorWithFields(err, "Failed to record image failure", map[string]interface{}{
				"asset_id": assetID,
			})
		}
		return details, fmt.Errorf("no image could be produced for %s out of %d candidates", assetID, len(sources))
	}

	update.Set(domain.AttrPostProducedImagesS3Path, processed).
		Set(domain.AttrImagesStatus, domain.StageStatusDone)
	record, err := s.metadataStore.Update(ctx, update)
	if err != nil {
		return details, fmt.Errorf("record images: %w", err)
	}

	trigger := domain.VideoTrigger{
		Bucket:      notification.Bucket,
		Key:         domain.VideoTriggerKey(assetID),
		AssetID:     assetID,
		ArticleBody: document,
		Metadata:    *record,
	}
	payload, err := json.Marshal(trigger)
	if err != nil {
		return details, fmt.Errorf("encode video trigger: %w", err)
	}

	triggerRef := domain.ObjectRef{Bucket: notification.Bucket, Key: trigger.Key}
	if err := s.contentStore.Put(ctx, triggerRef, payload, "application/json"); err != nil {
		return details, fmt.Errorf("write video trigger: %w", err)
	}
	details["video_trigger"] = triggerRef.URI()

	return details, nil
}

func (s *visualExtractor) processImage(ctx context.Context, workDir string, bucket string, assetID domain.AssetID,
	source string, index int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", err
	}

	payload, err := s.contentFetcher.FetchContent(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}

	name := imageFileName(source, index)
	sourcePath := filepath.Join(workDir, name)
	if err := os.WriteFile(sourcePath, payload, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	outputPath := sourcePath + ".tga"
	if err := s.imageProcessor.Convert(ctx, sourcePath, outputPath); err != nil {
		return "", fmt.Errorf("convert image: %w", err)
	}

	target := domain.ObjectRef{Bucket: bucket, Key: domain.ProcessedImageKey(assetID, name)}
	if err := s.contentStore.Upload(ctx, target, outputPath, "image/x-tga"); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return target.URI(), nil
}

// imageFileName keeps the last path segment of the image URL, prefixed by its position
// so two images with the same name do not collide.
func imageFileName(source string, index int) string {
	name := ""
	if parsed, err := url.Parse(source); err == nil {
		name = path.Base(parsed.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	return fmt.Sprintf("%02d-%s", index, name)
}
