package outbound

import "context"

type FadeOutParams struct {
	InputPath      string
	OutputPath     string
	PreviewSeconds int
	FadeOutSeconds int
}

type AudioProcessorPort interface {
	Duration(ctx context.Context, filePath string) (float64, error)
	FadeOut(ctx context.Context, params FadeOutParams) error
}
