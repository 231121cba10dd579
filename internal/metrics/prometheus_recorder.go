package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	fileResults  *prom.CounterVec
	runDuration  prom.Histogram
	runOutcomes  *prom.CounterVec
	lastRunEpoch prom.Gauge
}

// NewPrometheusRecorder constructs and registers the sync metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postsync",
			Name:      "files_total",
			Help:      "Source files seen by sync runs, by result",
		}, []string{"result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "postsync",
			Name:      "run_duration_seconds",
			Help:      "Duration of sync runs",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "postsync",
			Name:      "runs_total",
			Help:      "Sync runs by final outcome",
		}, []string{"outcome"}),
		lastRunEpoch: prom.NewGauge(prom.GaugeOpts{
			Namespace: "postsync",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last sync run finished",
		}),
	}
	reg.MustRegister(pr.fileResults, pr.runDuration, pr.runOutcomes, pr.lastRunEpoch)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncFileResult(result FileResult) {
	if p == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
	p.lastRunEpoch.SetToCurrentTime()
}

// WriteTextfile writes the registry in the text exposition format for the
// node-exporter textfile collector. The write is atomic.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
