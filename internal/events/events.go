// Package events publishes workout lifecycle events for downstream
// consumers.
package events

import (
	"context"
	"time"
)

// WorkoutCompleted is emitted when a draft workout is finalized.
type WorkoutCompleted struct {
	WorkoutID     string    `json:"workout_id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	Name          string    `json:"name,omitempty"`
	ExerciseCount int       `json:"exercise_count"`
	SetCount      int       `json:"set_count"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Publisher delivers workout events. Failures must never block the
// completion path; callers log and move on.
type Publisher interface {
	PublishWorkoutCompleted(ctx context.Context, event WorkoutCompleted) error
	Close() error
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

// PublishWorkoutCompleted implements Publisher.
func (NoopPublisher) PublishWorkoutCompleted(context.Context, WorkoutCompleted) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() error { return nil }
