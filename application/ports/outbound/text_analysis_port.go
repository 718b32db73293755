package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type TextAnalysisPort interface {
	DetectLanguages(ctx context.Context, text string) ([]domain.DetectedLanguage, error)
	DetectEntities(ctx context.Context, text string, languageCode string) ([]domain.Entity, error)
}
