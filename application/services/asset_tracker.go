package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"github.com/panjf2000/ants/v2"
	"time"
)

type assetTracker struct {
	logger        outbound.LoggerPort
	metadataStore outbound.MetadataStorePort
	workerPool    *ants.Pool
	interval      time.Duration
}

func NewAssetTracker(logger outbound.LoggerPort, metadataStore outbound.MetadataStorePort, workerPool *ants.Pool,
	interval time.Duration) inbound.AssetTrackerPort {
	return &assetTracker{
		logger:        logger,
		metadataStore: metadataStore,
		workerPool:    workerPool,
		interval:      interval,
	}
}

func (t *assetTracker) Get(ctx context.Context, id domain.AssetID) (*domain.MetadataRecord, error) {
	return t.metadataStore.Get(ctx, id)
}

// Watch polls the record and emits it whenever it changes. Both channels close once the
// asset reaches a terminal stage, the record cannot be read, or ctx is done.
func (t *assetTracker) Watch(ctx context.Context, id domain.AssetID) (<-chan domain.MetadataRecord, <-chan error) {
	out := make(chan domain.MetadataRecord)
	errCh := make(chan error, 1)

	err := t.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		var last time.Time
		first := true
		for {
			record, err := t.metadataStore.Get(ctx, id)
			if err != nil {
				if ctx.Err() == nil {
					errCh <- err
				}
				return
			}

			if first || !record.UpdatedAt.Equal(last) {
				first = false
				last = record.UpdatedAt
				select {
				case out <- *record:
				case <-ctx.Done():
					return
				}
			}

			if record.Terminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	})
	if err != nil {
		t.logger.ErrorWithFields(err, "Failed to start asset watch", map[string]interface{}{
			"asset_id": id,
		})
		errCh <- err
		close(errCh)
		close(out)
	}

	return out, errCh
}
