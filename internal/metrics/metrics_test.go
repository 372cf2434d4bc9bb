package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hissterical/MindfulPay/internal/metrics"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()

	m.IncrDecision("allowed")
	m.IncrDecision("allowed")
	m.IncrDecision("blocked_by_limit")
	m.IncrOverride("vendor_blocked")
	m.IncrDispatchError()
	m.IncrStorageError("ledger")
	m.ObserveEvaluation(3 * time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/overview", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.Decisions().WithLabelValues("allowed")); got != 2 {
		t.Errorf("expected 2 allowed decisions, got %v", got)
	}
	if got := testutil.ToFloat64(m.Decisions().WithLabelValues("blocked_by_limit")); got != 1 {
		t.Errorf("expected 1 blocked decision, got %v", got)
	}
	if got := testutil.ToFloat64(m.Overrides().WithLabelValues("vendor_blocked")); got != 1 {
		t.Errorf("expected 1 override, got %v", got)
	}
	if got := testutil.ToFloat64(m.DispatchErrors()); got != 1 {
		t.Errorf("expected 1 dispatch error, got %v", got)
	}
	if got := testutil.ToFloat64(m.StorageErrors().WithLabelValues("ledger")); got != 1 {
		t.Errorf("expected 1 storage error, got %v", got)
	}

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.IncrDecision("allowed")
	m.IncrOverride("limit_exceeded")
	m.IncrDispatchError()
	m.IncrStorageError("ledger")
	m.ObserveEvaluation(time.Millisecond)
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
}
