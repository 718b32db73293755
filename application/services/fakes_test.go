package services

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

var errInjected = errors.New("injected failure")

type memContentStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failGet  map[string]bool
	failPut  map[string]bool
	putOrder []string
}

func newMemContentStore() *memContentStore {
	return &memContentStore{
		objects: make(map[string][]byte),
		failGet: make(map[string]bool),
		failPut: make(map[string]bool),
	}
}

func (m *memContentStore) Get(_ context.Context, ref domain.ObjectRef) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet[ref.Key] {
		return nil, fmt.Errorf("get %s: %w", ref.Key, errInjected)
	}
	body, ok := m.objects[ref.URI()]
	if !ok {
		return nil, fmt.Errorf("no such key %s", ref.URI())
	}
	return body, nil
}

func (m *memContentStore) Put(_ context.Context, ref domain.ObjectRef, body []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut[ref.Key] {
		return fmt.Errorf("put %s: %w", ref.Key, errInjected)
	}
	m.objects[ref.URI()] = append([]byte(nil), body...)
	m.putOrder = append(m.putOrder, ref.Key)
	return nil
}

func (m *memContentStore) Download(ctx context.Context, ref domain.ObjectRef, filePath string) error {
	body, err := m.Get(ctx, ref)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, body, 0o600)
}

func (m *memContentStore) Upload(ctx context.Context, ref domain.ObjectRef, filePath string, contentType string) error {
	body, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return m.Put(ctx, ref, body, contentType)
}

func (m *memContentStore) has(ref domain.ObjectRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[ref.URI()]
	return ok
}

func (m *memContentStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type memMetadataStore struct {
	mu         sync.Mutex
	records    map[domain.AssetID]domain.MetadataRecord
	failUpdate error
	updates    int
	now        func() time.Time
}

func newMemMetadataStore() *memMetadataStore {
	return &memMetadataStore{
		records: make(map[domain.AssetID]domain.MetadataRecord),
		now:     time.Now,
	}
}

func (m *memMetadataStore) Update(_ context.Context, update *domain.MetadataUpdate) (*domain.MetadataRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	record, exists := m.records[update.AssetID]
	if err := update.ApplyTo(&record, exists, m.now()); err != nil {
		return nil, err
	}
	m.records[update.AssetID] = record
	m.updates++
	return &record, nil
}

func (m *memMetadataStore) Get(_ context.Context, id domain.AssetID) (*domain.MetadataRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return &record, nil
}

func (m *memMetadataStore) Scan(context.Context) ([]domain.MetadataRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]domain.MetadataRecord, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	return records, nil
}

func (m *memMetadataStore) put(record domain.MetadataRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.AssetID] = record
}

func (m *memMetadataStore) record(id domain.AssetID) domain.MetadataRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

type fakeNarrationEngine struct {
	mu       sync.Mutex
	requests []outbound.NarrationRequest
	fail     bool
}

func (f *fakeNarrationEngine) Submit(_ context.Context, req outbound.NarrationRequest) (*outbound.NarrationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errInjected
	}
	f.requests = append(f.requests, req)
	taskID := fmt.Sprintf("task-%d", len(f.requests))
	return &outbound.NarrationJob{
		TaskID:    taskID,
		Status:    "scheduled",
		OutputURI: fmt.Sprintf("s3://%s/%s%s.mp3", req.OutputBucket, req.OutputPrefix, taskID),
	}, nil
}

type fakeScraper struct {
	article *domain.Article
	err     error
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (*domain.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	article := *f.article
	article.URL = url
	return &article, nil
}

type fakeTextAnalysis struct {
	languages   []domain.DetectedLanguage
	entities    []domain.Entity
	seenText    string
	languageErr error
	entityErr   error
}

func (f *fakeTextAnalysis) DetectLanguages(_ context.Context, text string) ([]domain.DetectedLanguage, error) {
	f.seenText = text
	if f.languageErr != nil {
		return nil, f.languageErr
	}
	return f.languages, nil
}

func (f *fakeTextAnalysis) DetectEntities(context.Context, string, string) ([]domain.Entity, error) {
	if f.entityErr != nil {
		return nil, f.entityErr
	}
	return f.entities, nil
}

type fakeAudioProcessor struct {
	duration float64
	fadeErr  error
	params   []outbound.FadeOutParams
	mu       sync.Mutex
}

func (f *fakeAudioProcessor) Duration(context.Context, string) (float64, error) {
	return f.duration, nil
}

func (f *fakeAudioProcessor) FadeOut(_ context.Context, params outbound.FadeOutParams) error {
	f.mu.Lock()
	f.params = append(f.params, params)
	f.mu.Unlock()
	if f.fadeErr != nil {
		return f.fadeErr
	}
	return os.WriteFile(params.OutputPath, []byte("RIFF"), 0o600)
}

type copyImageProcessor struct{}

func (copyImageProcessor) Convert(_ context.Context, inputPath string, outputPath string) error {
	body, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, body, 0o600)
}

type mapFetcher struct {
	bodies map[string][]byte
}

func (m mapFetcher) FetchContent(req *http.Request) ([]byte, error) {
	body, ok := m.bodies[req.URL.String()]
	if !ok {
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", http.StatusNotFound)
	}
	return body, nil
}

type fakeVideoJobs struct {
	mu       sync.Mutex
	previews []outbound.PreviewVideoParams
	fulls    []outbound.FullVideoParams
	failFull bool
}

func (f *fakeVideoJobs) SubmitPreview(_ context.Context, params outbound.PreviewVideoParams) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previews = append(f.previews, params)
	return &domain.VideoJob{ID: "preview-" + params.AssetID.Base(), Kind: domain.PreviewVideo, Destination: params.Destination}, nil
}

func (f *fakeVideoJobs) SubmitFull(_ context.Context, params outbound.FullVideoParams) (*domain.VideoJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFull {
		return nil, errInjected
	}
	f.fulls = append(f.fulls, params)
	return &domain.VideoJob{ID: "full-" + params.AssetID.Base(), Kind: domain.FullVideo, Destination: params.Destination}, nil
}

type firstChooser struct{}

func (firstChooser) Intn(int) int { return 0 }
