package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"fmt"
	"sort"
	"time"
)

type auditor struct {
	logger        outbound.LoggerPort
	metadataStore outbound.MetadataStorePort
	now           func() time.Time
}

func NewAuditor(logger outbound.LoggerPort, metadataStore outbound.MetadataStorePort) inbound.AuditPort {
	return &auditor{
		logger:        logger,
		metadataStore: metadataStore,
		now:           time.Now,
	}
}

// FindStuck lists incomplete assets untouched for longer than olderThan, longest idle first.
func (a *auditor) FindStuck(ctx context.Context, olderThan time.Duration) ([]domain.StuckAsset, error) {
	records, err := a.metadataStore.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan metadata: %w", err)
	}

	now := a.now()
	cutoff := now.Add(-olderThan)
	stuck := make([]domain.StuckAsset, 0)
	for _, record := range records {
		if !domain.IsStuck(record, cutoff) {
			continue
		}
		var idle time.Duration
		if !record.UpdatedAt.IsZero() {
			idle = now.Sub(record.UpdatedAt)
		}
		stuck = append(stuck, domain.StuckAsset{
			Record: record,
			Stage:  record.Stage(),
			Idle:   idle,
		})
	}

	sort.SliceStable(stuck, func(i, j int) bool {
		return stuck[i].Idle > stuck[j].Idle
	})

	a.logger.InfoWithFields("Audit finished", map[string]interface{}{
		"scanned":    len(records),
		"stuck":      len(stuck),
		"older_than": olderThan.String(),
	})

	return stuck, nil
}
