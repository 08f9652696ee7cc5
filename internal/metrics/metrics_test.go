package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordExtraction(t *testing.T) {
	m := New()

	m.RecordExtraction("analysis", "strict")
	m.RecordExtraction("analysis", "strict")
	m.RecordExtraction("analysis", "repaired")

	if got := testutil.ToFloat64(m.Extractions.WithLabelValues("analysis", "strict")); got != 2 {
		t.Errorf("Expected 2 strict extractions, got %v", got)
	}
	if got := testutil.ToFloat64(m.Extractions.WithLabelValues("analysis", "repaired")); got != 1 {
		t.Errorf("Expected 1 repaired extraction, got %v", got)
	}
}

func TestRecordSanitizeDefaultIgnoresZero(t *testing.T) {
	m := New()

	m.RecordSanitizeDefault("confidence", 0)
	m.RecordSanitizeDefault("last5Values", 3)

	if got := testutil.CollectAndCount(m.SanitizeDefaults); got != 1 {
		t.Errorf("Expected 1 series, got %d", got)
	}
	if got := testutil.ToFloat64(m.SanitizeDefaults.WithLabelValues("last5Values")); got != 3 {
		t.Errorf("Expected 3 substitutions, got %v", got)
	}
}

func TestRecordModelCall(t *testing.T) {
	m := New()

	m.RecordModelCall("schedule", "ok", 1.5, 4)
	m.RecordModelCall("schedule", "error", 0.2, 0)

	if got := testutil.ToFloat64(m.ModelCalls.WithLabelValues("schedule", "ok")); got != 1 {
		t.Errorf("Expected 1 ok call, got %v", got)
	}
	if got := testutil.ToFloat64(m.ModelCalls.WithLabelValues("schedule", "error")); got != 1 {
		t.Errorf("Expected 1 failed call, got %v", got)
	}
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.RecordAnalysis("ALL", "ok", 5)
	m.RecordSchedule(8)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("Expected gathered metric families")
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same instance")
	}
}
