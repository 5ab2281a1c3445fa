package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLibraryAddTrimsAndSorts(t *testing.T) {
	lib := NewLibrary(language.English)
	rec := NewRecord()

	require.True(t, lib.Add(rec, "  Squat  "))
	require.True(t, lib.Add(rec, "Bench Press"))
	require.True(t, lib.Add(rec, "Deadlift"))

	require.Equal(t, []string{"Bench Press", "Deadlift", "Squat"}, rec.Exercises)
}

func TestLibraryAddRejectsEmpty(t *testing.T) {
	lib := NewLibrary(language.English)
	rec := NewRecord()

	require.False(t, lib.Add(rec, ""))
	require.False(t, lib.Add(rec, "   "))
	require.Empty(t, rec.Exercises)
}

func TestLibraryAddDeduplicatesCaseInsensitively(t *testing.T) {
	lib := NewLibrary(language.English)
	rec := NewRecord()

	require.True(t, lib.Add(rec, "Squat"))
	require.False(t, lib.Add(rec, "squat"))
	require.False(t, lib.Add(rec, "SQUAT"))
	require.False(t, lib.Add(rec, " squat "))

	require.Equal(t, []string{"Squat"}, rec.Exercises)
}

func TestLibraryKeepsFirstSpelling(t *testing.T) {
	lib := NewLibrary(language.English)
	rec := NewRecord()

	lib.Add(rec, "bench press")
	lib.Add(rec, "Bench Press")

	require.Equal(t, []string{"bench press"}, rec.Exercises)
}
