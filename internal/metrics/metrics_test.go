package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSave(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSave("create", nil)
	m.ObserveSave("update", nil)
	m.ObserveSave("update", errors.New("disk full"))

	if got := testutil.ToFloat64(m.SavesTotal.WithLabelValues("update", "ok")); got != 1 {
		t.Errorf("expected 1 ok update, got %v", got)
	}
	if got := testutil.ToFloat64(m.SavesTotal.WithLabelValues("update", "error")); got != 1 {
		t.Errorf("expected 1 failed update, got %v", got)
	}
}

func TestObserveAnalysisAndAvailability(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveAnalysis("openai", 2*time.Second, nil)
	m.SetAvailability("backend", false)
	m.SetAvailability("storage", true)

	if got := testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("openai", "ok")); got != 1 {
		t.Errorf("expected 1 analysis, got %v", got)
	}
	if got := testutil.ToFloat64(m.Availability.WithLabelValues("backend")); got != 0 {
		t.Errorf("expected backend availability 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.Availability.WithLabelValues("storage")); got != 1 {
		t.Errorf("expected storage availability 1, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAnalysis("anthropic", time.Second, nil)
	m.ObserveSave("create", nil)
	m.ObserveDelete(nil)
	m.SetAvailability("storage", true)
}
