package dto

import (
	"article-narration-pipeline/domain"
	"github.com/aws/aws-lambda-go/events"
	"net/url"
)

// BatchFromS3Event turns the records of an S3 notification into a batch. Object keys arrive
// form-encoded and are decoded here; a key that cannot be decoded is passed through as is.
func BatchFromS3Event(event events.S3Event) domain.Batch {
	batch := make(domain.Batch, 0, len(event.Records))
	for _, record := range event.Records {
		key := record.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		batch = append(batch, domain.Notification{
			EventName: record.EventName,
			EventTime: record.EventTime,
			Bucket:    record.S3.Bucket.Name,
			Key:       key,
			Size:      record.S3.Object.Size,
		})
	}
	return batch
}
