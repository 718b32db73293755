package inbound

import (
	"article-narration-pipeline/domain"
	"context"
	"time"
)

type AuditPort interface {
	FindStuck(ctx context.Context, olderThan time.Duration) ([]domain.StuckAsset, error)
}
