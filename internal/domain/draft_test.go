package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 1, 18, 30, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func TestResolveDraftCreatesWorkout(t *testing.T) {
	rec := NewRecord()

	draft, changed := rec.ResolveDraft("2024-05-01", testNow)
	require.True(t, changed)
	require.NotEmpty(t, draft.ID)
	require.Equal(t, "2024-05-01", draft.Date)
	require.Equal(t, WorkoutStatusDraft, draft.Status)
	require.Equal(t, testNow.UnixMilli(), draft.CreatedAt)
	require.Empty(t, draft.Exercises)
	require.Equal(t, draft.ID, rec.DraftID)
}

func TestResolveDraftIsIdempotent(t *testing.T) {
	rec := NewRecord()

	first, _ := rec.ResolveDraft("2024-05-01", testNow)
	second, changed := rec.ResolveDraft("2024-05-01", testNow.Add(time.Hour))

	require.False(t, changed)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, rec.Workouts, 1)
}

func TestResolveDraftReAdoptsOrphan(t *testing.T) {
	rec := NewRecord()
	orphan, _ := rec.ResolveDraft("2024-05-01", testNow)

	// Simulate a stale pointer left behind by a partial save.
	rec.DraftID = ""

	adopted, changed := rec.ResolveDraft("2024-05-01", testNow.Add(time.Minute))
	require.True(t, changed)
	require.Equal(t, orphan.ID, adopted.ID)
	require.Equal(t, orphan.ID, rec.DraftID)
	require.Len(t, rec.Workouts, 1)
}

func TestResolveDraftIgnoresYesterdaysDraft(t *testing.T) {
	rec := NewRecord()
	yesterday, _ := rec.ResolveDraft("2024-04-30", testNow.AddDate(0, 0, -1))

	today, changed := rec.ResolveDraft("2024-05-01", testNow)
	require.True(t, changed)
	require.NotEqual(t, yesterday.ID, today.ID)
	require.Equal(t, today.ID, rec.DraftID)
	require.Len(t, rec.Workouts, 2)
}

func TestCompleteWorkoutClearsMatchingDraftPointer(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome, transitioned := rec.CompleteWorkout(draft.ID, testNow.Add(time.Hour))
	require.Equal(t, OutcomeApplied, outcome)
	require.True(t, transitioned)
	require.Equal(t, WorkoutStatusCompleted, draft.Status)
	require.Equal(t, testNow.Add(time.Hour).UnixMilli(), draft.CompletedAt)
	require.Empty(t, rec.DraftID)
}

func TestCompleteWorkoutLeavesUnrelatedDraftPointer(t *testing.T) {
	rec := NewRecord()
	old := &Workout{ID: "old", Date: "2024-04-30", Status: WorkoutStatusDraft, Exercises: []ExerciseEntry{}}
	rec.Workouts = append(rec.Workouts, old)
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome, _ := rec.CompleteWorkout("old", testNow)
	require.Equal(t, OutcomeApplied, outcome)
	require.Equal(t, draft.ID, rec.DraftID)
}

func TestCompleteWorkoutMissingIsNotFound(t *testing.T) {
	rec := NewRecord()
	outcome, transitioned := rec.CompleteWorkout("nope", testNow)
	require.Equal(t, OutcomeNotFound, outcome)
	require.False(t, transitioned)
}

func TestCompleteWorkoutStampsCompletedAtOnce(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	_, transitioned := rec.CompleteWorkout(draft.ID, testNow)
	require.True(t, transitioned)
	first := draft.CompletedAt

	_, transitioned = rec.CompleteWorkout(draft.ID, testNow.Add(time.Hour))
	require.False(t, transitioned)
	require.Equal(t, first, draft.CompletedAt)
}

func TestRemoveWorkoutClearsDraftPointer(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	require.Equal(t, OutcomeApplied, rec.RemoveWorkout(draft.ID))
	require.Empty(t, rec.Workouts)
	require.Empty(t, rec.DraftID)
	require.Equal(t, OutcomeNotFound, rec.RemoveWorkout(draft.ID))
}

func TestRemoveCompletedWorkout(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)
	rec.CompleteWorkout(draft.ID, testNow)

	require.Equal(t, OutcomeApplied, rec.RemoveWorkout(draft.ID))
	require.Empty(t, rec.Workouts)
}

func TestRenameWorkoutAfterCompletion(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)
	rec.CompleteWorkout(draft.ID, testNow)

	require.Equal(t, OutcomeApplied, rec.RenameWorkout(draft.ID, "  Leg Day  "))
	require.Equal(t, "Leg Day", draft.Name)
	require.Equal(t, OutcomeNotFound, rec.RenameWorkout("nope", "x"))
}

func TestLogExerciseCommitsNormalizedSets(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome := rec.LogExercise(draft.ID, "  Row  ", []SetInput{
		{Reps: floatPtr(10), Weight: floatPtr(50)},
		{Reps: floatPtr(8), Weight: nil}, // blank weight commits as 0
		{Reps: nil, Weight: nil},         // both blank: dropped
	}, testNow)

	require.Equal(t, OutcomeApplied, outcome)
	require.Len(t, draft.Exercises, 1)

	entry := draft.Exercises[0]
	require.Equal(t, "Row", entry.Name)
	require.Equal(t, testNow.UnixMilli(), entry.CompletedAt)
	require.Equal(t, []Set{{Reps: 10, Weight: 50}, {Reps: 8, Weight: 0}}, entry.Sets)
}

func TestLogExerciseRejectsAllBlankSets(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome := rec.LogExercise(draft.ID, "Row", []SetInput{{}, {}}, testNow)
	require.Equal(t, OutcomeRejected, outcome)
	require.Empty(t, draft.Exercises)
}

func TestLogExerciseRejectsNegativeValuesAtomically(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome := rec.LogExercise(draft.ID, "Row", []SetInput{
		{Reps: floatPtr(10), Weight: floatPtr(50)},
		{Reps: floatPtr(-5), Weight: floatPtr(100)},
	}, testNow)

	require.Equal(t, OutcomeRejected, outcome)
	require.Empty(t, draft.Exercises)
}

func TestLogExerciseRejectsEmptyName(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)

	outcome := rec.LogExercise(draft.ID, "   ", []SetInput{{Reps: floatPtr(10)}}, testNow)
	require.Equal(t, OutcomeRejected, outcome)
}

func TestLogExerciseRejectsCompletedWorkout(t *testing.T) {
	rec := NewRecord()
	draft, _ := rec.ResolveDraft("2024-05-01", testNow)
	rec.CompleteWorkout(draft.ID, testNow)

	outcome := rec.LogExercise(draft.ID, "Row", []SetInput{{Reps: floatPtr(10)}}, testNow)
	require.Equal(t, OutcomeRejected, outcome)
	require.Empty(t, draft.Exercises)
}

func TestLogExerciseMissingWorkout(t *testing.T) {
	rec := NewRecord()
	outcome := rec.LogExercise("nope", "Row", []SetInput{{Reps: floatPtr(10)}}, testNow)
	require.Equal(t, OutcomeNotFound, outcome)
}
