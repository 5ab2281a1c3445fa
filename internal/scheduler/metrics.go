package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	modeDebounced = "debounced"
	modeImmediate = "immediate"
)

var (
	savesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "saves",
		Name:      "total",
		Help:      "Record saves attempted, by scheduling mode.",
	}, []string{"mode"})
	saveFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "saves",
		Name:      "failures_total",
		Help:      "Record saves that returned an error, by scheduling mode.",
	}, []string{"mode"})
	saveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workout_tracker",
		Subsystem: "saves",
		Name:      "duration_seconds",
		Help:      "Latency of record store writes.",
		Buckets:   prometheus.DefBuckets,
	})
	lastSaveGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_tracker",
		Subsystem: "saves",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful record save.",
	})
)

func init() {
	prometheus.MustRegister(savesTotal, saveFailures, saveDuration, lastSaveGauge)
}

func observeSave(mode string, start time.Time, err error) {
	savesTotal.WithLabelValues(mode).Inc()
	saveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		saveFailures.WithLabelValues(mode).Inc()
		return
	}
	lastSaveGauge.SetToCurrentTime()
}
