// Package metrics exports run totals in the Prometheus text format, for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"

	"story/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "story"
)

var statuses = []domain.Status{domain.StatusPassed, domain.StatusFailed, domain.StatusIncomplete}

// TextfileSink writes gauges describing a finished run to a .prom file
type TextfileSink struct {
	path     string
	registry *prometheus.Registry

	suites        prometheus.Gauge
	specsPlanned  prometheus.Gauge
	specsExecuted prometheus.Gauge
	specsFailed   prometheus.Gauge
	duration      prometheus.Gauge
	status        *prometheus.GaugeVec
}

// NewTextfileSink creates a sink writing to path
func NewTextfileSink(path string) *TextfileSink {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &TextfileSink{
		path:     path,
		registry: reg,
		suites: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "suites",
			Help:      "Number of suites in the last run",
		}),
		specsPlanned: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "specs_planned",
			Help:      "Number of specs the runner planned to execute",
		}),
		specsExecuted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "specs_executed",
			Help:      "Number of specs that reported a result",
		}),
		specsFailed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "specs_failed",
			Help:      "Number of specs with at least one failed expectation",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Total run time",
		}),
		status: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_status",
			Help:      "1 for the overall status of the last run, 0 otherwise",
		}, []string{"status"}),
	}
}

// Record sets the gauges from run
func (s *TextfileSink) Record(run domain.Run) {
	s.suites.Set(float64(len(run.Suites)))
	s.specsPlanned.Set(float64(run.TotalPlanned))
	s.specsExecuted.Set(float64(run.TestCount()))
	s.specsFailed.Set(float64(len(run.FailedTests())))
	s.duration.Set(run.TotalTime.Seconds())

	s.status.Reset()
	known := false
	for _, st := range statuses {
		v := 0.0
		if run.Status == st {
			v, known = 1, true
		}
		s.status.WithLabelValues(string(st)).Set(v)
	}
	if !known && run.Status != "" {
		s.status.WithLabelValues(string(run.Status)).Set(1)
	}
}

// Complete records run and writes the textfile
func (s *TextfileSink) Complete(run domain.Run) error {
	s.Record(run)
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
