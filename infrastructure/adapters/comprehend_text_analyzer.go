package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/comprehend"
	"github.com/aws/aws-sdk-go/service/comprehend/comprehendiface"
)

type comprehendTextAnalyzer struct {
	logger        outbound.LoggerPort
	comprehendSvc comprehendiface.ComprehendAPI
}

func NewComprehendTextAnalyzer(logger outbound.LoggerPort, comprehendSvc comprehendiface.ComprehendAPI) outbound.TextAnalysisPort {
	return &comprehendTextAnalyzer{
		logger:        logger,
		comprehendSvc: comprehendSvc,
	}
}

func (c *comprehendTextAnalyzer) DetectLanguages(ctx context.Context, text string) ([]domain.DetectedLanguage, error) {
	out, err := c.comprehendSvc.DetectDominantLanguageWithContext(ctx, &comprehend.DetectDominantLanguageInput{
		Text: aws.String(text),
	})
	if err != nil {
		c.logger.Error(err, "Error while detecting language")
		return nil, err
	}

	languages := make([]domain.DetectedLanguage, 0, len(out.Languages))
	for _, l := range out.Languages {
		languages = append(languages, domain.DetectedLanguage{
			LanguageCode: aws.StringValue(l.LanguageCode),
			Score:        aws.Float64Value(l.Score),
		})
	}
	return languages, nil
}

func (c *comprehendTextAnalyzer) DetectEntities(ctx context.Context, text string, languageCode string) ([]domain.Entity, error) {
	out, err := c.comprehendSvc.DetectEntitiesWithContext(ctx, &comprehend.DetectEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: aws.String(languageCode),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Error while detecting entities", map[string]interface{}{
			"language": languageCode,
		})
		return nil, err
	}

	entities := make([]domain.Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		entities = append(entities, domain.Entity{
			Text:        aws.StringValue(e.Text),
			Type:        aws.StringValue(e.Type),
			Score:       aws.Float64Value(e.Score),
			BeginOffset: aws.Int64Value(e.BeginOffset),
			EndOffset:   aws.Int64Value(e.EndOffset),
		})
	}
	return entities, nil
}
