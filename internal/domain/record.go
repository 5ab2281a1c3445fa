// Package domain defines the workout state model and its reconciliation logic.
package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// WorkoutStatus represents the lifecycle state of a workout.
type WorkoutStatus string

const (
	WorkoutStatusDraft     WorkoutStatus = "draft"
	WorkoutStatusCompleted WorkoutStatus = "completed"
)

// Set is one committed set of an exercise entry. Blank fields from the
// editing buffer are coerced to zero before commit.
type Set struct {
	Reps   float64 `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExerciseEntry is one exercise logged within a workout, with its sets in
// append order (set number is index+1 for display).
type ExerciseEntry struct {
	Name        string `json:"name"`
	Sets        []Set  `json:"sets"`
	CompletedAt int64  `json:"completedAt"`
}

// Workout is a single logged session. ID, Date and CreatedAt are immutable
// after creation; Name stays editable even after completion.
type Workout struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Name        string          `json:"name,omitempty"`
	Status      WorkoutStatus   `json:"status"`
	CreatedAt   int64           `json:"createdAt"`
	CompletedAt int64           `json:"completedAt,omitempty"`
	Exercises   []ExerciseEntry `json:"exercises"`
}

// Record is the entire persisted state for one user: the exercise-name
// library, all workouts, and the pointer to the currently open draft.
type Record struct {
	Exercises []string   `json:"exercises"`
	Workouts  []*Workout `json:"workouts"`
	DraftID   string     `json:"draftId,omitempty"`
}

// NewRecord returns an empty record with non-nil collections so it always
// serializes to the canonical `{"exercises":[],"workouts":[]}` shape.
func NewRecord() *Record {
	return &Record{
		Exercises: []string{},
		Workouts:  []*Workout{},
	}
}

// DecodeRecord rebuilds a Record from its persisted JSON form. The decoder
// is corruption tolerant: every top-level field that does not match its
// expected shape coerces to the empty default, malformed workout elements
// are dropped, and an unparseable payload yields a fresh empty record.
// It never fails.
func DecodeRecord(data []byte) *Record {
	rec := NewRecord()
	if len(data) == 0 {
		return rec
	}

	var raw struct {
		Exercises json.RawMessage `json:"exercises"`
		Workouts  json.RawMessage `json:"workouts"`
		DraftID   json.RawMessage `json:"draftId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return rec
	}

	var exercises []string
	if raw.Exercises != nil && json.Unmarshal(raw.Exercises, &exercises) == nil && exercises != nil {
		rec.Exercises = exercises
	}

	var elements []json.RawMessage
	if raw.Workouts != nil && json.Unmarshal(raw.Workouts, &elements) == nil {
		for _, element := range elements {
			var workout Workout
			if err := json.Unmarshal(element, &workout); err != nil {
				continue
			}
			if workout.ID == "" {
				continue
			}
			if workout.Exercises == nil {
				workout.Exercises = []ExerciseEntry{}
			}
			rec.Workouts = append(rec.Workouts, &workout)
		}
	}

	var draftID string
	if raw.DraftID != nil && json.Unmarshal(raw.DraftID, &draftID) == nil {
		rec.DraftID = draftID
	}
	return rec
}

// Encode serializes the record to its persisted JSON form.
func (r *Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Clone returns a deep copy, safe to hand to a concurrent writer while the
// original keeps being mutated.
func (r *Record) Clone() *Record {
	cp := &Record{
		Exercises: slices.Clone(r.Exercises),
		Workouts:  make([]*Workout, len(r.Workouts)),
		DraftID:   r.DraftID,
	}
	for i, workout := range r.Workouts {
		wc := workout.Clone()
		cp.Workouts[i] = &wc
	}
	return cp
}

// Clone returns a deep copy of the workout.
func (w *Workout) Clone() Workout {
	cp := *w
	cp.Exercises = make([]ExerciseEntry, len(w.Exercises))
	for i, entry := range w.Exercises {
		cp.Exercises[i] = entry
		cp.Exercises[i].Sets = slices.Clone(entry.Sets)
	}
	return cp
}

// workout resolves a workout by id, or nil.
func (r *Record) workout(id string) *Workout {
	if id == "" {
		return nil
	}
	for _, w := range r.Workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// LocalDate formats t as the local calendar date used for workout dates.
func LocalDate(t time.Time) string {
	return t.Format("2006-01-02")
}
