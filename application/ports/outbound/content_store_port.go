package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type ContentStorePort interface {
	Get(ctx context.Context, ref domain.ObjectRef) ([]byte, error)
	Put(ctx context.Context, ref domain.ObjectRef, body []byte, contentType string) error
	Download(ctx context.Context, ref domain.ObjectRef, filePath string) error
	Upload(ctx context.Context, ref domain.ObjectRef, filePath string, contentType string) error
}
