package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResolveDraft returns the single draft workout for today, resuming via the
// draft pointer when it still resolves, re-adopting an orphan draft for the
// same date when the pointer went stale, and creating a fresh workout
// otherwise. The returned workout is always the one reachable through
// DraftID afterwards. The boolean reports whether the record was mutated.
func (r *Record) ResolveDraft(today string, now time.Time) (*Workout, bool) {
	if w := r.workout(r.DraftID); w != nil && w.Status == WorkoutStatusDraft && w.Date == today {
		return w, false
	}

	// The pointer and the workout list can disagree after a partial save;
	// scan for an orphan draft before creating a duplicate for the day.
	for _, w := range r.Workouts {
		if w.Status == WorkoutStatusDraft && w.Date == today {
			r.DraftID = w.ID
			return w, true
		}
	}

	w := &Workout{
		ID:        uuid.NewString(),
		Date:      today,
		Status:    WorkoutStatusDraft,
		CreatedAt: now.UnixMilli(),
		Exercises: []ExerciseEntry{},
	}
	r.Workouts = append(r.Workouts, w)
	r.DraftID = w.ID
	return w, true
}

// CompleteWorkout transitions the workout to completed, stamping
// CompletedAt once, and clears the draft pointer only when it referenced
// this workout. The boolean reports whether the draft-to-completed
// transition actually happened; completing an already completed workout
// changes nothing and reports false.
func (r *Record) CompleteWorkout(id string, now time.Time) (Outcome, bool) {
	w := r.workout(id)
	if w == nil {
		return OutcomeNotFound, false
	}
	transitioned := false
	if w.Status != WorkoutStatusCompleted {
		w.Status = WorkoutStatusCompleted
		w.CompletedAt = now.UnixMilli()
		transitioned = true
	}
	if r.DraftID == id {
		r.DraftID = ""
	}
	return OutcomeApplied, transitioned
}

// RemoveWorkout deletes the workout entirely, clearing the draft pointer if
// it pointed at it. There is no tombstone; removal is not recoverable.
func (r *Record) RemoveWorkout(id string) Outcome {
	for i, w := range r.Workouts {
		if w.ID == id {
			r.Workouts = append(r.Workouts[:i], r.Workouts[i+1:]...)
			if r.DraftID == id {
				r.DraftID = ""
			}
			return OutcomeApplied
		}
	}
	return OutcomeNotFound
}

// RenameWorkout updates the free-text label. The label stays mutable after
// completion; everything else about a completed workout is frozen.
func (r *Record) RenameWorkout(id, name string) Outcome {
	w := r.workout(id)
	if w == nil {
		return OutcomeNotFound
	}
	w.Name = strings.TrimSpace(name)
	return OutcomeApplied
}

// SetInput is one editable set row from the in-progress exercise buffer.
// Nil fields are blanks the user never filled in: absent for validation,
// zero once committed.
type SetInput struct {
	Reps   *float64 `json:"reps"`
	Weight *float64 `json:"weight"`
}

// LogExercise validates the buffered exercise and, only if the whole buffer
// passes, appends it as a new entry to the workout. Sets with both fields
// blank are dropped first; the remainder must be non-empty and free of
// negative values or nothing is committed.
func (r *Record) LogExercise(workoutID, name string, sets []SetInput, now time.Time) Outcome {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return OutcomeRejected
	}

	kept := make([]SetInput, 0, len(sets))
	for _, s := range sets {
		if s.Reps == nil && s.Weight == nil {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return OutcomeRejected
	}
	for _, s := range kept {
		if s.Reps != nil && *s.Reps < 0 {
			return OutcomeRejected
		}
		if s.Weight != nil && *s.Weight < 0 {
			return OutcomeRejected
		}
	}

	w := r.workout(workoutID)
	if w == nil {
		return OutcomeNotFound
	}
	if w.Status != WorkoutStatusDraft {
		return OutcomeRejected
	}

	committed := make([]Set, len(kept))
	for i, s := range kept {
		committed[i] = Set{Reps: valueOrZero(s.Reps), Weight: valueOrZero(s.Weight)}
	}
	w.Exercises = append(w.Exercises, ExerciseEntry{
		Name:        clean,
		Sets:        committed,
		CompletedAt: now.UnixMilli(),
	})
	return OutcomeApplied
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
