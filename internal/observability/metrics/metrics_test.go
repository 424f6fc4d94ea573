package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSubmissionCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)

	m.ObserveSubmission("hero", "created")
	m.ObserveSubmission("hero", "created")
	m.ObserveSubmission("", "invalid")

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("hero", "created")); got != 2 {
		t.Fatalf("expected 2 created hero submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("unknown", "invalid")); got != 1 {
		t.Fatalf("expected empty source to count as unknown, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveSubmission("contact", "created")
	m.ObserveNotification("sent")
}
