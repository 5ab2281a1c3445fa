package domain

import (
	"sort"
	"strings"
)

// CompletedWorkouts returns the completed workouts most recent first. A
// missing CompletedAt sorts as zero, placing the workout last.
func (r *Record) CompletedWorkouts() []*Workout {
	out := make([]*Workout, 0, len(r.Workouts))
	for _, w := range r.Workouts {
		if w.Status == WorkoutStatusCompleted {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt > out[j].CompletedAt
	})
	return out
}

// LastTime finds the most recent completed performance of the named
// exercise, excluding one workout (normally the open draft asking the
// question). Workouts are visited most recent first, but entries within a
// workout are scanned in reverse append order, so an exercise logged twice
// in the same workout yields its later occurrence. This expresses "most
// recent occurrence across all time", not "most recent workout".
func (r *Record) LastTime(exerciseName, excludeWorkoutID string) (*Workout, *ExerciseEntry, bool) {
	target := strings.TrimSpace(exerciseName)
	if target == "" {
		return nil, nil, false
	}

	for _, w := range r.CompletedWorkouts() {
		if w.ID == excludeWorkoutID {
			continue
		}
		for i := len(w.Exercises) - 1; i >= 0; i-- {
			entry := &w.Exercises[i]
			if strings.EqualFold(strings.TrimSpace(entry.Name), target) {
				return w, entry, true
			}
		}
	}
	return nil, nil, false
}
