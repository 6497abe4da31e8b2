package jobmetrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func scrape(t *testing.T, registry *prometheus.Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected scrape status %d", rr.Code)
	}
	return rr.Body.String()
}

func TestTrackerRecordsOutcome(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	if err := m.Track("audit:log").End(nil); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	boom := errors.New("boom")
	if err := m.Track("audit:log").End(boom); !errors.Is(err, boom) {
		t.Fatalf("expected error passthrough, got %v", err)
	}

	body := scrape(t, registry)
	if !strings.Contains(body, `customerhub_jobs_total{job="audit:log",status="success"} 1`) {
		t.Fatalf("expected success count, got: %s", body)
	}
	if !strings.Contains(body, `customerhub_jobs_failures_total{job="audit:log"} 1`) {
		t.Fatalf("expected failure count, got: %s", body)
	}
	if !strings.Contains(body, `customerhub_job_duration_seconds_count{job="audit:log"} 2`) {
		t.Fatalf("expected two duration samples, got: %s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObservePublish("audit", PublishEnqueued)
	if err := m.Track("audit:log").End(nil); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestObservePublish(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.ObservePublish("audit", PublishDropped)
	m.ObservePublish("audit", PublishDropped)

	body := scrape(t, registry)
	if !strings.Contains(body, `customerhub_audit_publish_total{outcome="dropped",queue="audit"} 2`) {
		t.Fatalf("expected dropped count, got: %s", body)
	}
}
