package lambda_interface

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/domain"
	"context"
	"encoding/base64"
	"errors"
	"github.com/aws/aws-lambda-go/events"
	"net/http"
	"strings"
	"testing"
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

type stageRouter struct {
	stage domain.StageName
	batch domain.Batch
}

func (r *stageRouter) Routes() []domain.Route { return domain.DefaultRoutes }

func (r *stageRouter) Resolve(key string) (domain.Route, error) {
	return domain.ResolveRoute(domain.DefaultRoutes, key)
}

func (r *stageRouter) Dispatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	return r.DispatchTo(ctx, "", batch)
}

func (r *stageRouter) DispatchTo(_ context.Context, stage domain.StageName, batch domain.Batch) domain.BatchReport {
	r.stage = stage
	r.batch = batch
	report := domain.NewBatchReport()
	for _, n := range batch {
		report.FailedOps = append(report.FailedOps, domain.FailedOp{Record: n, Error: "boom"})
	}
	return report
}

type stubIntake struct {
	url string
	err error
}

func (s *stubIntake) Intake(_ context.Context, params inbound.IntakeParams) (*domain.Document, error) {
	s.url = params.URL
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Document{AssetID: "abc.json", URL: params.URL}, nil
}

func TestStageHandler_ReportsWithoutError(t *testing.T) {
	router := &stageRouter{}
	handler := NewStageHandler(nopLogger{}, router, domain.FinalizationStage)

	event := events.S3Event{Records: []events.S3EventRecord{{
		EventName: "ObjectCreated:Put",
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: "videos"},
			Object: events.S3Object{Key: "output/full/hls/abc/templateabc.m3u8"},
		},
	}}}

	report, err := handler.Handle(context.Background(), event)
	if err != nil {
		t.Fatal("Handle must not fail the invocation:", err)
	}
	if router.stage != domain.FinalizationStage {
		t.Fatalf("dispatched to %s", router.stage)
	}
	if len(report.FailedOps) != 1 || report.FailedOps[0].Record.Bucket != "videos" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestIntakeHandler(t *testing.T) {
	tests := []struct {
		name     string
		request  events.APIGatewayProxyRequest
		err      error
		status   int
		contains string
	}{
		{"success", events.APIGatewayProxyRequest{Body: `{"Url":"https://example.com/a"}`}, nil, http.StatusOK, `"AssetId":"abc.json"`},
		{
			"base64 body",
			events.APIGatewayProxyRequest{Body: base64.StdEncoding.EncodeToString([]byte(`{"Url":"https://example.com/a"}`)), IsBase64Encoded: true},
			nil, http.StatusOK, `"Url":"https://example.com/a"`,
		},
		{"missing url", events.APIGatewayProxyRequest{}, domain.ErrMissingURL, http.StatusBadRequest, domain.ErrMissingURL.Error()},
		{"malformed", events.APIGatewayProxyRequest{Body: `[`}, nil, http.StatusBadRequest, "Url"},
		{
			"write failure",
			events.APIGatewayProxyRequest{Body: `{"Url":"https://example.com/a"}`},
			&domain.IntakeError{Step: "write-subtitles", Err: errors.New("denied")},
			http.StatusInternalServerError, `"step":"write-subtitles"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewIntakeHandler(nopLogger{}, &stubIntake{err: tt.err})

			res, err := handler.Handle(context.Background(), tt.request)
			if err != nil {
				t.Fatal("Failed to handle request:", err)
			}
			if res.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, res.StatusCode)
			}
			if !strings.Contains(res.Body, tt.contains) {
				t.Fatalf("body %q does not contain %q", res.Body, tt.contains)
			}
		})
	}
}
