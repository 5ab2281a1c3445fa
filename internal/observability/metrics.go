// Package observability exposes service-level Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "workouts",
		Name:      "completed_total",
		Help:      "Draft workouts transitioned to completed.",
	})
	workoutsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "workouts",
		Name:      "discarded_total",
		Help:      "Workouts removed by an explicit discard or delete.",
	})
	exercisesLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "workouts",
		Name:      "exercises_logged_total",
		Help:      "Exercise entries committed into draft workouts.",
	})
	lastCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_tracker",
		Subsystem: "workouts",
		Name:      "last_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recently completed workout.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCompleted, workoutsDiscarded, exercisesLogged, lastCompletedGauge)
}

// RecordWorkoutCompleted updates the completion counter and watermark.
func RecordWorkoutCompleted(ts time.Time) {
	workoutsCompleted.Inc()
	if ts.IsZero() {
		return
	}
	lastCompletedGauge.Set(float64(ts.Unix()))
}

// RecordWorkoutDiscarded counts an explicit discard or delete.
func RecordWorkoutDiscarded() {
	workoutsDiscarded.Inc()
}

// RecordExerciseLogged counts a committed exercise entry.
func RecordExerciseLogged() {
	exercisesLogged.Inc()
}
