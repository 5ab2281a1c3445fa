package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRecordEmptyPayload(t *testing.T) {
	rec := DecodeRecord(nil)
	require.NotNil(t, rec)
	require.Empty(t, rec.Exercises)
	require.Empty(t, rec.Workouts)
	require.Empty(t, rec.DraftID)
}

func TestDecodeRecordGarbagePayload(t *testing.T) {
	rec := DecodeRecord([]byte(`{deeply broken`))
	require.Empty(t, rec.Exercises)
	require.Empty(t, rec.Workouts)
	require.Empty(t, rec.DraftID)
}

func TestDecodeRecordCoercesMalformedFields(t *testing.T) {
	// exercises is an object, draftId a number: both coerce to defaults,
	// the valid workouts survive.
	payload := []byte(`{
		"exercises": {"not": "an array"},
		"workouts": [
			{"id": "w1", "date": "2024-05-01", "status": "completed", "createdAt": 1, "completedAt": 2},
			"not a workout",
			{"date": "missing id"}
		],
		"draftId": 42
	}`)

	rec := DecodeRecord(payload)
	require.Empty(t, rec.Exercises)
	require.Len(t, rec.Workouts, 1)
	require.Equal(t, "w1", rec.Workouts[0].ID)
	require.NotNil(t, rec.Workouts[0].Exercises)
	require.Empty(t, rec.DraftID)
}

func TestDecodeRecordNullDraftID(t *testing.T) {
	rec := DecodeRecord([]byte(`{"exercises":["Squat"],"workouts":[],"draftId":null}`))
	require.Equal(t, []string{"Squat"}, rec.Exercises)
	require.Empty(t, rec.DraftID)
}

func TestEncodeEmptyRecordShape(t *testing.T) {
	data, err := NewRecord().Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"exercises":[],"workouts":[]}`, string(data))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := NewRecord()
	rec.Exercises = []string{"Bench Press", "Squat"}
	rec.Workouts = []*Workout{{
		ID:        "w1",
		Date:      "2024-05-01",
		Status:    WorkoutStatusDraft,
		CreatedAt: 1714500000000,
		Exercises: []ExerciseEntry{{
			Name:        "Row",
			Sets:        []Set{{Reps: 10, Weight: 50}},
			CompletedAt: 1714500100000,
		}},
	}}
	rec.DraftID = "w1"

	data, err := rec.Encode()
	require.NoError(t, err)

	decoded := DecodeRecord(data)
	require.Equal(t, rec.Exercises, decoded.Exercises)
	require.Equal(t, rec.DraftID, decoded.DraftID)
	require.Len(t, decoded.Workouts, 1)
	require.Equal(t, *rec.Workouts[0], *decoded.Workouts[0])
}

func TestPersistedFieldNames(t *testing.T) {
	rec := NewRecord()
	rec.Workouts = append(rec.Workouts, &Workout{ID: "w1", Date: "2024-05-01", Status: WorkoutStatusDraft, CreatedAt: 1, Exercises: []ExerciseEntry{}})
	rec.DraftID = "w1"

	data, err := rec.Encode()
	require.NoError(t, err)

	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &shape))
	require.Contains(t, shape, "exercises")
	require.Contains(t, shape, "workouts")
	require.Contains(t, shape, "draftId")
}

func TestCloneIsDeep(t *testing.T) {
	rec := NewRecord()
	rec.Exercises = []string{"Squat"}
	rec.Workouts = []*Workout{{
		ID:        "w1",
		Date:      "2024-05-01",
		Status:    WorkoutStatusDraft,
		Exercises: []ExerciseEntry{{Name: "Row", Sets: []Set{{Reps: 10, Weight: 50}}}},
	}}

	cp := rec.Clone()
	rec.Exercises[0] = "changed"
	rec.Workouts[0].Status = WorkoutStatusCompleted
	rec.Workouts[0].Exercises[0].Sets[0].Reps = 99

	require.Equal(t, "Squat", cp.Exercises[0])
	require.Equal(t, WorkoutStatusDraft, cp.Workouts[0].Status)
	require.Equal(t, float64(10), cp.Workouts[0].Exercises[0].Sets[0].Reps)
}
