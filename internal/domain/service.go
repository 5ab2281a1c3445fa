package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/text/language"

	"example.com/workouttracker/internal/events"
	"example.com/workouttracker/internal/observability"
	"example.com/workouttracker/internal/scheduler"
)

// ErrRecordNotFound is returned by a RecordStore when no record exists for
// the scope yet. The service reacts by initializing an empty record.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore captures the load/save primitives the core needs from a
// persistence backend. Save is an idempotent whole-record upsert.
type RecordStore interface {
	Load(ctx context.Context, scope string) (*Record, error)
	Save(ctx context.Context, scope string, rec *Record) error
}

// ServiceConfig bundles the collaborators of a session service.
type ServiceConfig struct {
	Scope     string
	Store     RecordStore
	Collation language.Tag
	SaveDelay time.Duration
	Events    events.Publisher
	Logger    *log.Logger
	Now       func() time.Time
}

// Service is the session-scoped controller owning one user's record. All
// mutations go through its methods; a mutex serializes them, standing in
// for the single logical thread of control the model assumes. Every
// mutation that changes the record schedules a coalesced save; mutations
// that must be durable before the caller proceeds flush synchronously.
type Service struct {
	scope   string
	store   RecordStore
	library *Library
	saves   *scheduler.Debouncer
	events  events.Publisher
	logger  *log.Logger
	now     func() time.Time

	mu  sync.Mutex
	rec *Record
}

// NewService loads (or initializes) the record for the scope and returns a
// ready controller.
func NewService(ctx context.Context, cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("record store is required")
	}
	s := &Service{
		scope:   cfg.Scope,
		store:   cfg.Store,
		library: NewLibrary(cfg.Collation),
		events:  cfg.Events,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
	if s.events == nil {
		s.events = events.NoopPublisher{}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.saves = scheduler.NewDebouncer(cfg.SaveDelay, s.persist, scheduler.WithLogger(s.logger))

	rec, err := cfg.Store.Load(ctx, cfg.Scope)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		rec = NewRecord()
		if err := cfg.Store.Save(ctx, cfg.Scope, rec); err != nil {
			return nil, fmt.Errorf("initialize record: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load record: %w", err)
	}
	s.rec = rec
	return s, nil
}

// persist snapshots the record as it is right now and writes it out. The
// snapshot is taken at flush time, not enqueue time, so a burst of edits
// always persists its final state and saves never regress.
func (s *Service) persist(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.rec.Clone()
	s.mu.Unlock()
	return s.store.Save(ctx, s.scope, snapshot)
}

// AddExercise records a name in the exercise library. Duplicate or empty
// names are no-ops and schedule nothing.
func (s *Service) AddExercise(name string) {
	s.mu.Lock()
	changed := s.library.Add(s.rec, name)
	s.mu.Unlock()
	if changed {
		s.saves.Schedule()
	}
}

// Exercises returns the sorted exercise library.
func (s *Service) Exercises() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rec.Exercises))
	copy(out, s.rec.Exercises)
	return out
}

// StartWorkout resumes or creates the draft workout for the given local
// date and returns a snapshot of it.
func (s *Service) StartWorkout(today string) Workout {
	s.mu.Lock()
	draft, changed := s.rec.ResolveDraft(today, s.now())
	out := draft.Clone()
	s.mu.Unlock()
	if changed {
		s.saves.Schedule()
	}
	return out
}

// LogExercise validates a buffered exercise and appends it to the draft.
// Rejections leave the record untouched and schedule nothing.
func (s *Service) LogExercise(workoutID, name string, sets []SetInput) Outcome {
	s.mu.Lock()
	outcome := s.rec.LogExercise(workoutID, name, sets, s.now())
	s.mu.Unlock()
	if outcome == OutcomeApplied {
		observability.RecordExerciseLogged()
		s.saves.Schedule()
	}
	return outcome
}

// RenameWorkout updates a workout label, before or after completion.
func (s *Service) RenameWorkout(id, name string) Outcome {
	s.mu.Lock()
	outcome := s.rec.RenameWorkout(id, name)
	s.mu.Unlock()
	if outcome == OutcomeApplied {
		s.saves.Schedule()
	}
	return outcome
}

// CompleteWorkout finalizes a draft and persists immediately, superseding
// any pending debounced save. The save error is returned so the caller can
// warn the user; the in-memory completion stands either way. Repeating a
// completion is idempotent: no second event, no double-counted metrics.
func (s *Service) CompleteWorkout(ctx context.Context, id string) (Outcome, error) {
	s.mu.Lock()
	outcome, transitioned := s.rec.CompleteWorkout(id, s.now())
	var completed Workout
	if outcome == OutcomeApplied {
		if w := s.rec.workout(id); w != nil {
			completed = w.Clone()
		}
	}
	s.mu.Unlock()

	if outcome != OutcomeApplied {
		return outcome, nil
	}

	if transitioned {
		completedAt := time.UnixMilli(completed.CompletedAt)
		observability.RecordWorkoutCompleted(completedAt)
		s.publishCompleted(completed, completedAt)
	}
	return outcome, s.saves.Flush(ctx)
}

// DiscardWorkout removes a workout entirely (draft discard and history
// delete share these semantics) and persists immediately.
func (s *Service) DiscardWorkout(ctx context.Context, id string) (Outcome, error) {
	s.mu.Lock()
	outcome := s.rec.RemoveWorkout(id)
	s.mu.Unlock()

	if outcome != OutcomeApplied {
		return outcome, nil
	}
	observability.RecordWorkoutDiscarded()
	return outcome, s.saves.Flush(ctx)
}

// Workout returns a snapshot of one workout by id.
func (s *Service) Workout(id string) (Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.rec.workout(id)
	if w == nil {
		return Workout{}, false
	}
	return w.Clone(), true
}

// History returns completed workouts, most recent first.
func (s *Service) History() []Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := s.rec.CompletedWorkouts()
	out := make([]Workout, len(completed))
	for i, w := range completed {
		out[i] = w.Clone()
	}
	return out
}

// LastTime reports the most recent completed performance of the named
// exercise outside the excluded workout.
func (s *Service) LastTime(exerciseName, excludeWorkoutID string) (Workout, ExerciseEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, entry, ok := s.rec.LastTime(exerciseName, excludeWorkoutID)
	if !ok {
		return Workout{}, ExerciseEntry{}, false
	}
	wc := w.Clone()
	ec := *entry
	ec.Sets = append([]Set(nil), entry.Sets...)
	return wc, ec, true
}

// Reset replaces the record with a fresh empty one and persists
// immediately. Not recoverable.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.rec = NewRecord()
	s.mu.Unlock()
	return s.saves.Flush(ctx)
}

// Close flushes any pending save. Called on shutdown.
func (s *Service) Close(ctx context.Context) error {
	return s.saves.Flush(ctx)
}

func (s *Service) publishCompleted(w Workout, completedAt time.Time) {
	setCount := 0
	for _, entry := range w.Exercises {
		setCount += len(entry.Sets)
	}
	event := events.WorkoutCompleted{
		WorkoutID:     w.ID,
		UserID:        s.scope,
		Date:          w.Date,
		Name:          w.Name,
		ExerciseCount: len(w.Exercises),
		SetCount:      setCount,
		CompletedAt:   completedAt.UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.PublishWorkoutCompleted(ctx, event); err != nil {
			s.logger.Printf("events: publish workout completed: %v", err)
		}
	}()
}
