package services

import (
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func readyRecord() domain.MetadataRecord {
	return domain.MetadataRecord{
		AssetID:                        "abc.json",
		FullNarration:                  domain.NarrationDone,
		FullNarrationFile:              "s3://narrations/audio/full/abc.json/task-1.mp3",
		FullNarrationDurationInSeconds: 125.7,
		AudioPreview:                   "s3://narrations/audio/preview/abc.json/task-1.wav",
		AudioPreviewStatus:             domain.StageStatusDone,
		PostProducedImagesS3Paths: []string{
			"s3://narrations/image/output/abc.json/00-a.jpg.tga",
			"s3://narrations/image/output/abc.json/01-b.jpg.tga",
			"s3://narrations/image/output/abc.json/02-c.jpg.tga",
			"s3://narrations/image/output/abc.json/03-d.jpg.tga",
		},
		ImagesStatus: domain.StageStatusDone,
	}
}

func newVideoFixture(t *testing.T, record domain.MetadataRecord, jobs *fakeVideoJobs) (*memMetadataStore, *videoAssembler, domain.Notification) {
	t.Helper()
	store := newMemContentStore()
	metadata := newMemMetadataStore()
	metadata.put(record)

	trigger := domain.VideoTrigger{
		Bucket:   "narrations",
		Key:      domain.VideoTriggerKey(record.AssetID),
		AssetID:  record.AssetID,
		Metadata: record,
	}
	body, err := json.Marshal(trigger)
	if err != nil {
		t.Fatal("Failed to encode trigger:", err)
	}
	ref := domain.ObjectRef{Bucket: "narrations", Key: trigger.Key}
	if err := store.Put(context.Background(), ref, body, "application/json"); err != nil {
		t.Fatal("Failed to seed trigger:", err)
	}

	worker := NewVideoAssembler(nopLogger{}, newTestRunner(t, 2, time.Minute), store, metadata, jobs,
		&config.VideoConfig{DestinationBucket: "videos"})
	return metadata, worker.(*videoAssembler), domain.Notification{Bucket: ref.Bucket, Key: ref.Key}
}

func TestVideoAssembler_SubmitsBothJobs(t *testing.T) {
	jobs := &fakeVideoJobs{}
	metadata, worker, notification := newVideoFixture(t, readyRecord(), jobs)

	report := worker.HandleBatch(context.Background(), domain.Batch{notification})
	if len(report.FailedOps) != 0 {
		t.Fatalf("unexpected failures %+v", report.FailedOps)
	}

	if len(jobs.previews) != 1 || len(jobs.fulls) != 1 {
		t.Fatalf("expected one job of each kind, got %d/%d", len(jobs.previews), len(jobs.fulls))
	}
	preview := jobs.previews[0]
	if preview.AudioURI != readyRecord().AudioPreview || preview.SubtitleURI != "s3://narrations/srt/preview/abc.json.srt" {
		t.Fatalf("unexpected preview params %+v", preview)
	}
	if preview.Destination != "s3://videos/output/preview/abc" || len(preview.ImageURIs) != 4 {
		t.Fatalf("unexpected preview params %+v", preview)
	}

	full := jobs.fulls[0]
	if full.Destination != "s3://videos/output/full/hls/abc/" || full.NameModifier != "abc" {
		t.Fatalf("unexpected full params %+v", full)
	}
	if full.EndTimecode != "00:02:06:00" || len(full.Images) != 4 {
		t.Fatalf("unexpected full timeline %+v", full)
	}
	if full.Images[2].StartTimecode != "00:01:02:00" || full.Images[2].DurationMs != 31000 {
		t.Fatalf("unexpected image slot %+v", full.Images[2])
	}

	record := metadata.record("abc.json")
	if record.PreviewVideoJob != "preview-abc" || record.FullVideoJob != "full-abc" || record.VideoStatus != domain.StageStatusSubmitted {
		t.Fatalf("unexpected video fields %+v", record)
	}
	if record.Stage() != domain.StageRendering {
		t.Fatalf("expected rendering stage, got %s", record.Stage())
	}
}

func TestVideoAssembler_RejectsIncompleteTrigger(t *testing.T) {
	record := readyRecord()
	record.AudioPreviewStatus = domain.StageStatusFailed
	jobs := &fakeVideoJobs{}
	_, worker, notification := newVideoFixture(t, record, jobs)

	report := worker.HandleBatch(context.Background(), domain.Batch{notification})
	if len(report.FailedOps) != 1 {
		t.Fatalf("expected the item to fail, got %+v", report)
	}
	if len(jobs.previews) != 0 || len(jobs.fulls) != 0 {
		t.Fatal("no job may be submitted")
	}
}

func TestVideoAssembler_FullJobFailure(t *testing.T) {
	jobs := &fakeVideoJobs{failFull: true}
	metadata, worker, notification := newVideoFixture(t, readyRecord(), jobs)

	report := worker.HandleBatch(context.Background(), domain.Batch{notification})
	if len(report.FailedOps) != 1 {
		t.Fatalf("expected the item to fail, got %+v", report)
	}

	record := metadata.record("abc.json")
	if record.VideoStatus != domain.StageStatusFailed || record.PreviewVideoJob != "preview-abc" {
		t.Fatalf("failure must keep the submitted preview job, got %+v", record)
	}
}
