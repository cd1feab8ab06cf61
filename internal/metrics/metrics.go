// Package metrics provides Prometheus metrics for promptsmith
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors touched by the revision workflow.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	SavesTotal       *prometheus.CounterVec
	DeletesTotal     *prometheus.CounterVec
	Availability     *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptsmith_analyses_total",
				Help: "Total number of prompt analysis calls",
			},
			[]string{"backend", "status"},
		),
		AnalysisDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptsmith_analysis_duration_seconds",
				Help:    "Duration of prompt analysis calls in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"backend"},
		),
		SavesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptsmith_saves_total",
				Help: "Total number of prompt commits",
			},
			[]string{"path", "status"},
		),
		DeletesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptsmith_deletes_total",
				Help: "Total number of prompt deletions",
			},
			[]string{"status"},
		),
		Availability: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "promptsmith_availability",
				Help: "Last connectivity probe result per dependency (1 = reachable)",
			},
			[]string{"dependency"},
		),
	}
}

func (m *Metrics) ObserveAnalysis(backend string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(backend, status(err)).Inc()
	m.AnalysisDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// ObserveSave records a commit; path is "create" or "update".
func (m *Metrics) ObserveSave(path string, err error) {
	if m == nil {
		return
	}
	m.SavesTotal.WithLabelValues(path, status(err)).Inc()
}

func (m *Metrics) ObserveDelete(err error) {
	if m == nil {
		return
	}
	m.DeletesTotal.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) SetAvailability(dependency string, ok bool) {
	if m == nil {
		return
	}
	v := 0.0
	if ok {
		v = 1
	}
	m.Availability.WithLabelValues(dependency).Set(v)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
