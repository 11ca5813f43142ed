package metrics

import "testing"

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordRequest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRequest("GET", "/api/v1/results", 200, 0.05)

	if !hasMetric(t, reg, "http_requests_total") {
		t.Error("expected http_requests_total metric")
	}
}

func TestRegistry_RecordAnalysis(t *testing.T) {
	reg := NewRegistry()

	reg.RecordAnalysis("gann", "ok", 0.02)
	reg.RecordAnalysis("volprice", "error", 0.01)

	if !hasMetric(t, reg, "gannwheel_analyses_total") {
		t.Error("expected gannwheel_analyses_total metric")
	}
	if !hasMetric(t, reg, "gannwheel_analysis_duration_seconds") {
		t.Error("expected gannwheel_analysis_duration_seconds metric")
	}
}

func TestRegistry_RecordBatch(t *testing.T) {
	reg := NewRegistry()

	reg.RecordBatch("ok", 2, 1, 1.5)

	if !hasMetric(t, reg, "gannwheel_batches_total") {
		t.Error("expected gannwheel_batches_total metric")
	}
	if !hasMetric(t, reg, "gannwheel_batch_symbols_total") {
		t.Error("expected gannwheel_batch_symbols_total metric")
	}
}

func TestRegistry_StatusBuckets(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusToString(tt.status); got != tt.expected {
			t.Errorf("statusToString(%d) = %s, want %s", tt.status, got, tt.expected)
		}
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_in_flight" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetGauge().GetValue() != 1 {
				t.Errorf("expected in-flight gauge to be 1, got %v", m.GetGauge().GetValue())
			}
		}
		return
	}
	t.Error("expected http_requests_in_flight metric")
}

func hasMetric(t *testing.T, reg *Registry, name string) bool {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return true
		}
	}
	return false
}
