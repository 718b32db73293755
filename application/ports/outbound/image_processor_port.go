package outbound

import "context"

type ImageProcessorPort interface {
	Convert(ctx context.Context, inputPath string, outputPath string) error
}
