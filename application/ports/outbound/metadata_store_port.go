package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

// MetadataStorePort persists per-asset records as field-level merges.
// Update returns the record as stored after the merge.
type MetadataStorePort interface {
	Update(ctx context.Context, update *domain.MetadataUpdate) (*domain.MetadataRecord, error)
	Get(ctx context.Context, id domain.AssetID) (*domain.MetadataRecord, error)
	Scan(ctx context.Context) ([]domain.MetadataRecord, error)
}
