package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type PreviewVideoParams struct {
	AssetID     domain.AssetID
	AudioURI    string
	SubtitleURI string
	ImageURIs   []string
	Destination string
}

type FullVideoParams struct {
	AssetID      domain.AssetID
	AudioURI     string
	Images       []domain.ImageSlot
	EndTimecode  string
	NameModifier string
	Destination  string
}

type VideoJobPort interface {
	SubmitPreview(ctx context.Context, params PreviewVideoParams) (*domain.VideoJob, error)
	SubmitFull(ctx context.Context, params FullVideoParams) (*domain.VideoJob, error)
}
