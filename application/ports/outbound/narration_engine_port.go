package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type NarrationRequest struct {
	Text         string
	VoiceID      string
	Engine       domain.Engine
	LanguageCode string
	OutputBucket string
	OutputPrefix string
}

// NarrationJob is the handle of an asynchronous synthesis task. Completion is observed
// through the output object, never by polling the handle.
type NarrationJob struct {
	TaskID    string
	Status    string
	OutputURI string
}

type NarrationEnginePort interface {
	Submit(ctx context.Context, req NarrationRequest) (*NarrationJob, error)
}
