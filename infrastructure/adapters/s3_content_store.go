package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"io"
	"os"
)

type s3ContentStore struct {
	logger outbound.LoggerPort
	s3Svc  s3iface.S3API
}

func NewS3ContentStore(logger outbound.LoggerPort, s3Svc s3iface.S3API) outbound.ContentStorePort {
	return &s3ContentStore{
		logger: logger,
		s3Svc:  s3Svc,
	}
}

func (s *s3ContentStore) Get(ctx context.Context, ref domain.ObjectRef) ([]byte, error) {
	body, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref.URI(), err)
	}
	return payload, nil
}

func (s *s3ContentStore) Put(ctx context.Context, ref domain.ObjectRef, body []byte, contentType string) error {
	return s.put(ctx, ref, bytes.NewReader(body), int64(len(body)), contentType)
}

func (s *s3ContentStore) Download(ctx context.Context, ref domain.ObjectRef, filePath string) error {
	body, err := s.open(ctx, ref)
	if err != nil {
		return err
	}
	defer body.Close()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", filePath, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "error closing downloaded file")
		}
	}()

	if _, err := io.Copy(file, body); err != nil {
		return fmt.Errorf("download %s: %w", ref.URI(), err)
	}
	return nil
}

func (s *s3ContentStore) Upload(ctx context.Context, ref domain.ObjectRef, filePath string, contentType string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filePath, err)
	}

	return s.put(ctx, ref, file, info.Size(), contentType)
}

func (s *s3ContentStore) open(ctx context.Context, ref domain.ObjectRef) (io.ReadCloser, error) {
	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to get object from S3", map[string]interface{}{
			"bucket": ref.Bucket,
			"key":    ref.Key,
		})
		return nil, fmt.Errorf("get %s: %w", ref.URI(), err)
	}
	return out.Body, nil
}

func (s *s3ContentStore) put(ctx context.Context, ref domain.ObjectRef, body io.ReadSeeker, size int64, contentType string) error {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(ref.Bucket),
		Key:           aws.String(ref.Key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		putInput.ContentType = aws.String(contentType)
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": ref.Bucket,
			"key":    ref.Key,
		})
		return fmt.Errorf("put %s: %w", ref.URI(), err)
	}

	s.logger.DebugWithFields("Successfully uploaded object to S3", map[string]interface{}{
		"uri":  ref.URI(),
		"size": size,
	})
	return nil
}
