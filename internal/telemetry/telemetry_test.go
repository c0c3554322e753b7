package telemetry

import (
	"net/http/httptest"
	"testing"
)

func TestNewLoggerProducesUsableLogger(t *testing.T) {
	log, flush, err := NewLogger("keyforgectl", true)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer flush()

	log.Info("test message", "key", "value")
	if log.GetSink() == nil {
		t.Fatal("expected a non-nil log sink")
	}
}

func TestNewLevelLoggerAcceptsDebugLevel(t *testing.T) {
	log, flush, err := NewLevelLogger("keyforge-controlplane", 1)
	if err != nil {
		t.Fatalf("NewLevelLogger: %v", err)
	}
	defer flush()

	log.V(1).Info("debug message")
}

func TestMetricsHandlerServesPrometheusFormat(t *testing.T) {
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected a non-empty metrics body")
	}
}
