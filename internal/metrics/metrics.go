package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-diary/internal/weather"
)

// Collector records run metrics on its own registry. It implements
// weather.Observer so the walker feeds it directly.
type Collector struct {
	registry *prometheus.Registry

	MonthsTotal         *prometheus.CounterVec
	RecordsTotal        prometheus.Counter
	SkippedRowsTotal    prometheus.Counter
	FetchDuration       prometheus.Histogram
	CloudinessTotal     *prometheus.CounterVec
	LastRunRecords      prometheus.Gauge
	LastRunTimestampSec prometheus.Gauge
}

// NewCollector creates a collector with metrics under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		MonthsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "months_total",
				Help:      "Months attempted, by outcome",
			},
			[]string{"status"}, // "ok", "failed"
		),

		RecordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_extracted_total",
				Help:      "Daily records extracted from diary pages",
			},
		),

		SkippedRowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_skipped_total",
				Help:      "Diary table rows skipped as malformed",
			},
		),

		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "month_fetch_duration_seconds",
				Help:      "Time to fetch and decode one diary page",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),

		CloudinessTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cloudiness_observations_total",
				Help:      "Day and evening observations by cloudiness label",
			},
			[]string{"label"},
		),

		LastRunRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_records",
				Help:      "Records written by the last run",
			},
		),

		LastRunTimestampSec: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run finished",
			},
		),
	}

	c.registry.MustRegister(
		c.MonthsTotal,
		c.RecordsTotal,
		c.SkippedRowsTotal,
		c.FetchDuration,
		c.CloudinessTotal,
		c.LastRunRecords,
		c.LastRunTimestampSec,
	)
	return c
}

func (c *Collector) MonthStarted(weather.MonthQuery) {}

func (c *Collector) MonthFinished(o weather.MonthOutcome) {
	status := "ok"
	if o.Failed() {
		status = "failed"
	}
	c.MonthsTotal.WithLabelValues(status).Inc()
	c.RecordsTotal.Add(float64(o.Records))
	c.SkippedRowsTotal.Add(float64(o.SkippedRows))
	c.FetchDuration.Observe(o.Duration.Seconds())
}

// ObserveSummary records the end-of-run figures.
func (c *Collector) ObserveSummary(s weather.Summary) {
	for _, label := range weather.Cloudinesses() {
		c.CloudinessTotal.WithLabelValues(string(label)).Add(float64(s.Cloudiness[label]))
	}
	c.LastRunRecords.Set(float64(s.Records))
	c.LastRunTimestampSec.SetToCurrentTime()
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics in the text exposition format, for a
// node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
