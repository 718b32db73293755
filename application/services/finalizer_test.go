package services

import (
	"article-narration-pipeline/domain"
	"context"
	"testing"
	"time"
)

const (
	previewVideoKey = "output/preview/abc.mp4"
	fullVideoKey    = "output/full/hls/abc/abc_1080p.m3u8"
)

func newFinalizerFixture(t *testing.T) (*memMetadataStore, *finalizer) {
	t.Helper()
	metadata := newMemMetadataStore()
	worker := NewFinalizer(nopLogger{}, newTestRunner(t, 2, time.Minute), metadata)
	return metadata, worker.(*finalizer)
}

func TestFinalizer_CompletesInEitherOrder(t *testing.T) {
	orders := map[string][]string{
		"preview first": {previewVideoKey, fullVideoKey},
		"full first":    {fullVideoKey, previewVideoKey},
	}

	for name, keys := range orders {
		t.Run(name, func(t *testing.T) {
			metadata, worker := newFinalizerFixture(t)
			metadata.put(domain.MetadataRecord{AssetID: "abc.json", VideoStatus: domain.StageStatusSubmitted})

			first := worker.HandleBatch(context.Background(), domain.Batch{{Bucket: "videos", Key: keys[0]}})
			if len(first.FailedOps) != 0 {
				t.Fatalf("unexpected failures %+v", first.FailedOps)
			}
			if metadata.record("abc.json").WorkflowStatus == domain.WorkflowComplete {
				t.Fatal("workflow cannot be complete after a single video")
			}

			second := worker.HandleBatch(context.Background(), domain.Batch{{Bucket: "videos", Key: keys[1]}})
			if len(second.FailedOps) != 0 {
				t.Fatalf("unexpected failures %+v", second.FailedOps)
			}

			record := metadata.record("abc.json")
			if record.PreviewVideoFile != "s3://videos/"+previewVideoKey {
				t.Fatalf("unexpected preview %s", record.PreviewVideoFile)
			}
			if record.FullVideoStream != "s3://videos/output/full/hls/abc/" {
				t.Fatalf("unexpected stream %s", record.FullVideoStream)
			}
			if record.WorkflowStatus != domain.WorkflowComplete || !record.Terminal() {
				t.Fatalf("expected COMPLETE, got %+v", record)
			}
		})
	}
}

func TestFinalizer_ReplayIsHarmless(t *testing.T) {
	metadata, worker := newFinalizerFixture(t)
	metadata.put(domain.MetadataRecord{AssetID: "abc.json"})

	batch := domain.Batch{
		{Bucket: "videos", Key: fullVideoKey},
		{Bucket: "videos", Key: "output/full/hls/abc/abc_720p.m3u8"},
		{Bucket: "videos", Key: previewVideoKey},
	}
	for i := 0; i < 2; i++ {
		report := worker.HandleBatch(context.Background(), batch)
		if len(report.FailedOps) != 0 {
			t.Fatalf("run %d: unexpected failures %+v", i, report.FailedOps)
		}
	}

	record := metadata.record("abc.json")
	if record.FullVideoStream != "s3://videos/output/full/hls/abc/" || record.WorkflowStatus != domain.WorkflowComplete {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestFinalizer_MissingRecord(t *testing.T) {
	metadata, worker := newFinalizerFixture(t)

	report := worker.HandleBatch(context.Background(), domain.Batch{{Bucket: "videos", Key: previewVideoKey}})
	if len(report.FailedOps) != 1 {
		t.Fatalf("expected the item to fail, got %+v", report)
	}
	if _, err := metadata.Get(context.Background(), "abc.json"); err == nil {
		t.Fatal("no record may be created")
	}
}
