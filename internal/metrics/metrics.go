package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "dataset_merge_"

	resultSuccess = "success"
	resultError   = "error"
)

// Recorder holds the merge pipeline collectors on a private registry. A nil
// *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	sourceRows    *prometheus.GaugeVec
	outputRows    prometheus.Gauge
	outputColumns prometheus.Gauge
	interpolated  prometheus.Gauge
	dropped       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Merge runs by result",
			},
			[]string{"result"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_duration_seconds",
				Help:    "Wall time of a full merge run",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		sourceRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "source_rows",
				Help: "Hourly rows produced by each source loader in the last run",
			},
			[]string{"source"},
		),
		outputRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "output_rows",
			Help: "Rows in the last merged table",
		}),
		outputColumns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "output_columns",
			Help: "Columns in the last merged table",
		}),
		interpolated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "interpolated_cells",
			Help: "Cells filled by time interpolation in the last run",
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "dropped_rows",
			Help: "Base rows dropped for missing values in the last run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
	r.registry.MustRegister(
		r.runs,
		r.runDuration,
		r.sourceRows,
		r.outputRows,
		r.outputColumns,
		r.interpolated,
		r.dropped,
		r.lastSuccess,
	)
	return r
}

// Registry exposes the collectors for an HTTP handler or a textfile dump.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveSource(source string, rows int) {
	if r == nil {
		return
	}
	r.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// ObserveMerge records the merged table shape and merge counters.
func (r *Recorder) ObserveMerge(rows, columns, interpolated, dropped int) {
	if r == nil {
		return
	}
	r.outputRows.Set(float64(rows))
	r.outputColumns.Set(float64(columns))
	r.interpolated.Set(float64(interpolated))
	r.dropped.Set(float64(dropped))
}

// ObserveRun records a finished run. err decides the result label.
func (r *Recorder) ObserveRun(started time.Time, err error) {
	if r == nil {
		return
	}
	r.runDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		r.runs.WithLabelValues(resultError).Inc()
		return
	}
	r.runs.WithLabelValues(resultSuccess).Inc()
	r.lastSuccess.SetToCurrentTime()
}

// WriteTextfile dumps the registry in Prometheus text format, for the
// node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
