package dto

import (
	"article-narration-pipeline/domain"
	"time"
)

type AssetResponse struct {
	Stage  domain.Stage          `json:"stage"`
	Record domain.MetadataRecord `json:"record"`
}

func NewAssetResponse(record domain.MetadataRecord) AssetResponse {
	return AssetResponse{Stage: record.Stage(), Record: record}
}

type StuckAssetResponse struct {
	AssetID   domain.AssetID `json:"AssetId"`
	Stage     domain.Stage   `json:"stage"`
	Idle      string         `json:"idle"`
	UpdatedAt time.Time      `json:"UpdatedAt"`
}

type AuditResponse struct {
	OlderThan string               `json:"older_than"`
	Stuck     []StuckAssetResponse `json:"stuck"`
}

func NewAuditResponse(olderThan time.Duration, stuck []domain.StuckAsset) AuditResponse {
	res := AuditResponse{OlderThan: olderThan.String(), Stuck: make([]StuckAssetResponse, 0, len(stuck))}
	for _, asset := range stuck {
		res.Stuck = append(res.Stuck, StuckAssetResponse{
			AssetID:   asset.Record.AssetID,
			Stage:     asset.Stage,
			Idle:      asset.Idle.Round(time.Second).String(),
			UpdatedAt: asset.Record.UpdatedAt,
		})
	}
	return res
}
