package inbound

import (
	"article-narration-pipeline/domain"
	"context"
)

// StageWorkerPort processes every notification of a batch independently. The report
// is returned even when some or all items failed.
type StageWorkerPort interface {
	Name() domain.StageName
	HandleBatch(ctx context.Context, batch domain.Batch) domain.BatchReport
}
