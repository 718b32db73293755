package inbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type IntakeParams struct {
	URL string
}

type IntakePort interface {
	Intake(ctx context.Context, params IntakeParams) (*domain.Document, error)
}
