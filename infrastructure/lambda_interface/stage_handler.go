package lambda_interface

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/gin_interface/dto"
	"context"
	"github.com/aws/aws-lambda-go/events"
)

// StageHandler is the entry point of one deployed stage. Records routed elsewhere are reported
// failed instead of being processed.
type StageHandler struct {
	logger outbound.LoggerPort
	router inbound.RouterPort
	stage  domain.StageName
}

func NewStageHandler(logger outbound.LoggerPort, router inbound.RouterPort, stage domain.StageName) *StageHandler {
	return &StageHandler{
		logger: logger,
		router: router,
		stage:  stage,
	}
}

// Handle never returns an error so the platform does not redeliver the whole batch; failures
// are listed in the report.
func (h *StageHandler) Handle(ctx context.Context, event events.S3Event) (domain.BatchReport, error) {
	report := h.router.DispatchTo(ctx, h.stage, dto.BatchFromS3Event(event))

	fields := map[string]interface{}{
		"stage":     h.stage,
		"records":   len(event.Records),
		"succeeded": len(report.SuccessfulOps),
		"failed":    len(report.FailedOps),
	}
	if len(report.FailedOps) > 0 {
		h.logger.WarnWithFields("Stage batch finished with failures", fields)
	} else {
		h.logger.InfoWithFields("Stage batch finished", fields)
	}

	return report, nil
}
