package middleware

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu     sync.Mutex
	debug  []map[string]interface{}
	warn   []map[string]interface{}
	errors []error
}

func (l *recordingLogger) Info(string)                                   {}
func (l *recordingLogger) InfoWithFields(string, map[string]interface{}) {}
func (l *recordingLogger) Error(error, string)                           {}
func (l *recordingLogger) Debug(string)                                  {}
func (l *recordingLogger) Warn(string)                                   {}

func (l *recordingLogger) ErrorWithFields(err error, _ string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

func (l *recordingLogger) DebugWithFields(_ string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fields)
}

func (l *recordingLogger) WarnWithFields(_ string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warn = append(l.warn, fields)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestLogger(t *testing.T) {
	logger := &recordingLogger{}
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/err", func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusInternalServerError, errors.New("store unavailable"))
	})

	for _, path := range []string{"/ok", "/boom", "/err"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if len(logger.debug) != 1 || logger.debug[0]["path"] != "/ok" || logger.debug[0]["status"] != http.StatusOK {
		t.Fatalf("unexpected debug entries %v", logger.debug)
	}
	if len(logger.warn) != 1 || logger.warn[0]["status"] != http.StatusBadGateway {
		t.Fatalf("unexpected warn entries %v", logger.warn)
	}
	if len(logger.errors) != 1 || logger.errors[0].Error() != "store unavailable" {
		t.Fatalf("unexpected error entries %v", logger.errors)
	}
}

func TestSSEHeaders(t *testing.T) {
	router := gin.New()
	router.GET("/stream", SSEHeaders(), func(c *gin.Context) {
		c.SSEvent("status", "ok")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("unexpected cache control %q", got)
	}
}
