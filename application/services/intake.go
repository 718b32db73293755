package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
)

type randomChooser struct{}

func (randomChooser) Intn(n int) int {
	return rand.Intn(n)
}

// RandomChooser picks any eligible voice; no distribution is promised.
func RandomChooser() domain.Chooser {
	return randomChooser{}
}

type intakeService struct {
	logger         outbound.LoggerPort
	scraper        outbound.ArticleScraperPort
	textAnalysis   outbound.TextAnalysisPort
	contentStore   outbound.ContentStorePort
	metadataStore  outbound.MetadataStorePort
	voices         domain.VoiceTable
	chooser        domain.Chooser
	s3Config       *config.S3Config
	pipelineConfig *config.PipelineConfig
}

func NewIntakeService(logger outbound.LoggerPort, scraper outbound.ArticleScraperPort, textAnalysis outbound.TextAnalysisPort,
	contentStore outbound.ContentStorePort, metadataStore outbound.MetadataStorePort, voices domain.VoiceTable,
	chooser domain.Chooser, s3Config *config.S3Config, pipelineConfig *config.PipelineConfig) inbound.IntakePort {
	return &intakeService{
		logger:         logger,
		scraper:        scraper,
		textAnalysis:   textAnalysis,
		contentStore:   contentStore,
		metadataStore:  metadataStore,
		voices:         voices,
		chooser:        chooser,
		s3Config:       s3Config,
		pipelineConfig: pipelineConfig,
	}
}

// Intake runs strictly in sequence and stops at the first failure. Validation failures
// return before anything is written.
func (s *intakeService) Intake(ctx context.Context, params inbound.IntakeParams) (*domain.Document, error) {
	sourceURL := strings.TrimSpace(params.URL)
	if sourceURL == "" {
		return nil, domain.ErrMissingURL
	}

	partial := map[string]interface{}{"Url": sourceURL}

	article, err := s.scraper.Scrape(ctx, sourceURL)
	if err != nil {
		return nil, s.abort("scrape", err, partial)
	}
	if strings.TrimSpace(article.Text) == "" {
		return nil, domain.ErrEmptyArticle
	}

	analysisText := domain.TruncateForAnalysis(article.Text)

	languages, err := s.textAnalysis.DetectLanguages(ctx, analysisText)
	if err != nil {
		return nil, s.abort("detect-language", err, partial)
	}
	dominant, err := domain.DominantLanguage(languages)
	if err != nil {
		return nil, s.abort("detect-language", err, partial)
	}
	partial["DominantLanguage"] = dominant.LanguageCode

	entities, err := s.textAnalysis.DetectEntities(ctx, analysisText, dominant.LanguageCode)
	if err != nil {
		return nil, s.abort("detect-entities", err, partial)
	}

	voice, err := s.voices.Pick(dominant.LanguageCode, s.chooser)
	if err != nil {
		return nil, s.abort("choose-voice", err, partial)
	}

	titles := domain.SubtitleTitles(article.Header, article.Titles, s.pipelineConfig.SubtitleFooter)
	subtitleTrack := domain.BuildSubtitleTrack(titles, float64(s.pipelineConfig.PreviewDurationSeconds))
	adManifest := domain.AdManifest(domain.AdTagURL(s.pipelineConfig.AdsURL, entities))

	assetID := domain.NewAssetID()
	bucket := s.s3Config.BucketName
	document := domain.Document{
		AssetID:      assetID,
		Text:         article.Text,
		LanguageCode: voice.FullLanguageCode,
		VoiceID:      voice.VoiceID,
		Engine:       voice.Engine(),
		URL:          sourceURL,
		ImagesURLs:   nonNil(article.ImageURLs),
		TitlesText:   titles,
		Entities:     entities,
		SRTFile:      subtitleTrack,
		VMAPFile:     adManifest,
	}
	partial["AssetId"] = assetID

	subtitleRef := domain.ObjectRef{Bucket: bucket, Key: domain.SubtitleKey(assetID)}
	if err := s.contentStore.Put(ctx, subtitleRef, []byte(subtitleTrack), "application/x-subrip"); err != nil {
		partial["SRTFile"] = subtitleTrack
		return nil, s.abort("write-subtitles", err, partial)
	}

	adManifestRef := domain.ObjectRef{Bucket: bucket, Key: domain.AdManifestKey(assetID)}
	if err := s.contentStore.Put(ctx, adManifestRef, []byte(adManifest), "application/xml"); err != nil {
		partial["VMAPFile"] = adManifest
		return nil, s.abort("write-ad-manifest", err, partial)
	}

	documentRef := domain.ObjectRef{Bucket: bucket, Key: domain.DocumentKey(assetID)}

	// The record is seeded before the document lands so the narration trigger always finds it.
	seed := domain.NewMetadataUpdate(assetID).Seed().
		Set(domain.AttrBucket, bucket).
		Set(domain.AttrFullNarration, domain.NarrationNotStarted).
		Set(domain.AttrVoiceID, voice.VoiceID).
		Set(domain.AttrArticlePath, documentRef.URI()).
		Set(domain.AttrLanguageCode, voice.FullLanguageCode).
		Set(domain.AttrEngine, voice.Engine()).
		Set(domain.AttrURL, sourceURL)
	if _, err := s.metadataStore.Update(ctx, seed); err != nil {
		return nil, s.abort("seed-metadata", err, partial)
	}

	payload, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, s.abort("encode-document", err, partial)
	}
	if err := s.contentStore.Put(ctx, documentRef, payload, "application/json"); err != nil {
		partial["OutputDocument"] = document
		return nil, s.abort("write-document", err, partial)
	}

	s.logger.InfoWithFields("Article accepted", map[string]interface{}{
		"asset_id": assetID,
		"url":      sourceURL,
		"language": voice.FullLanguageCode,
		"voice":    voice.VoiceID,
	})

	return &document, nil
}

func (s *intakeService) abort(step string, err error, partial map[string]interface{}) error {
	s.logger.ErrorWithFields(err, "Intake aborted", map[string]interface{}{
		"step": step,
		"url":  partial["Url"],
	})
	return &domain.IntakeError{
		Step:    step,
		Err:     err,
		Partial: partial,
		FailedOps: []domain.FailedOp{{
			Stage: "intake",
			Error: fmt.Sprintf("%s: %v", step, err),
		}},
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
