package inbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type RouterPort interface {
	Routes() []domain.Route
	Resolve(key string) (domain.Route, error)
	Dispatch(ctx context.Context, batch domain.Batch) domain.BatchReport
	DispatchTo(ctx context.Context, stage domain.StageName, batch domain.Batch) domain.BatchReport
}
