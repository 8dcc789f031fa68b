package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports frame engine counters. A nil *Metrics records nothing.
type Metrics struct {
	framesTotal   prometheus.Counter
	frameErrors   prometheus.Counter
	frameDuration prometheus.Histogram
	failedGauges  prometheus.Gauge
	snapshotSeq   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "udashboard",
			Name:      "frames_total",
			Help:      "Total count of frames produced by the engine.",
		}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "udashboard",
			Name:      "frame_errors_total",
			Help:      "Total count of ticks that failed to produce a frame.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "udashboard",
			Name:      "frame_duration_seconds",
			Help:      "Histogram of frame evaluation durations.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		failedGauges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "udashboard",
			Name:      "failed_gauges",
			Help:      "Gauges that could not be resolved in the latest frame.",
		}),
		snapshotSeq: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "udashboard",
			Name:      "snapshot_seq",
			Help:      "Telemetry snapshot sequence the latest frame was evaluated against.",
		}),
	}

	reg.MustRegister(
		m.framesTotal,
		m.frameErrors,
		m.frameDuration,
		m.failedGauges,
		m.snapshotSeq,
	)
	return m
}

func (m *Metrics) observeFrame(frame *Frame, failed int, took time.Duration) {
	if m == nil {
		return
	}
	m.framesTotal.Inc()
	m.frameDuration.Observe(took.Seconds())
	m.failedGauges.Set(float64(failed))
	m.snapshotSeq.Set(float64(frame.SnapshotSeq))
}

func (m *Metrics) observeError() {
	if m == nil {
		return
	}
	m.frameErrors.Inc()
}
