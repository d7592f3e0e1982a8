package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewJobMetrics(reg)
	job := "workspace-sweep"
	metrics.ObserveRun(job, 250*time.Millisecond, 3, nil)
	metrics.ObserveRun(job, 10*time.Millisecond, 0, errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "hearth_job_success_total", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "hearth_job_failure_total", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "hearth_job_items_total", "job", job); err != nil {
		t.Fatalf("fetch items: %v", err)
	} else if got != 3 {
		t.Fatalf("expected items=3, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "hearth_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestBackendMetricsLabelsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewBackendMetrics(reg)
	metrics.Observe("create_booking", 201, 120*time.Millisecond)
	metrics.Observe("create_booking", 0, time.Second)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "hearth_backend_requests_total")
	if mf == nil {
		t.Fatalf("requests metric missing")
	}
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected two status series, got %d", len(mf.GetMetric()))
	}
	if _, err := fetchHistogramSum(mfs, "hearth_backend_request_duration_seconds", "operation", "create_booking"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
}

func TestCheckoutMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.IncOutcome("succeeded", "cart")
	metrics.IncOutcome("succeeded", "direct")
	metrics.IncOutcome("failed", "")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "hearth_checkout_outcomes_total", "source", "unknown"); err != nil {
		t.Fatalf("fetch: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown source=1, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	NewJobMetrics(nil).ObserveRun("x", time.Second, 1, nil)
	NewBackendMetrics(nil).Observe("x", 200, time.Second)
	NewCheckoutMetrics(nil).IncOutcome("x", "y")
	var nilMetrics *CheckoutMetrics
	nilMetrics.IncOutcome("x", "y")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
