package inbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type AssetTrackerPort interface {
	Get(ctx context.Context, id domain.AssetID) (*domain.MetadataRecord, error)
	Watch(ctx context.Context, id domain.AssetID) (<-chan domain.MetadataRecord, <-chan error)
}
