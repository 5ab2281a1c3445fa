// Package api exposes the HTTP surface consumed by the presentation layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/workouttracker/internal/auth"
	"example.com/workouttracker/internal/domain"
)

// Handler coordinates HTTP requests with per-user session services.
type Handler struct {
	sessions *domain.Manager
	now      func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(sessions *domain.Manager) *Handler {
	return &Handler{sessions: sessions, now: time.Now}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/exercises", h.exercises)
	mux.HandleFunc("/v1/exercises/last", h.lastTime)
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/draft", h.draft)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/record", h.record)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// session authorizes the request and resolves the caller's session
// service. On failure it writes the error response and returns false.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, write bool) (*domain.Service, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if write {
		if !claims.HasScope(auth.ScopeWorkoutsWrite) {
			writeError(w, http.StatusForbidden, "forbidden", "scope workouts:write required")
			return nil, false
		}
	} else if !claims.HasScope(auth.ScopeWorkoutsRead) && !claims.HasScope(auth.ScopeWorkoutsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope workouts:read required")
		return nil, false
	}

	session, err := h.sessions.Session(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return nil, false
	}
	return session, true
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		session, ok := h.session(w, r, false)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, ExerciseListResponse{Exercises: session.Exercises()})
	case http.MethodPost:
		session, ok := h.session(w, r, true)
		if !ok {
			return
		}
		var req AddExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		session.AddExercise(req.Name)
		writeJSON(w, http.StatusOK, ExerciseListResponse{Exercises: session.Exercises()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) lastTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	session, ok := h.session(w, r, false)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing name parameter")
		return
	}
	exclude := r.URL.Query().Get("exclude")

	workout, entry, found := session.LastTime(name, exclude)
	if !found {
		writeJSON(w, http.StatusOK, LastTimeResponse{Found: false})
		return
	}
	wv := toWorkoutView(workout)
	ev := toEntryView(entry)
	writeJSON(w, http.StatusOK, LastTimeResponse{Found: true, Workout: &wv, Exercise: &ev})
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	session, ok := h.session(w, r, false)
	if !ok {
		return
	}

	history := session.History()
	items := make([]WorkoutView, 0, len(history))
	for _, workout := range history {
		items = append(items, toWorkoutView(workout))
	}
	writeJSON(w, http.StatusOK, WorkoutListResponse{Items: items})
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}

	var req StartDraftRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	today := req.Date
	if today == "" {
		today = domain.LocalDate(h.now())
	}
	writeJSON(w, http.StatusOK, toWorkoutView(session.StartWorkout(today)))
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getWorkout(w, r, id)
	case action == "" && r.Method == http.MethodPatch:
		h.renameWorkout(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteWorkout(w, r, id)
	case action == "complete" && r.Method == http.MethodPost:
		h.completeWorkout(w, r, id)
	case action == "exercises" && r.Method == http.MethodPost:
		h.logExercise(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := h.session(w, r, false)
	if !ok {
		return
	}
	workout, found := session.Workout(id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(workout))
}

func (h *Handler) renameWorkout(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}
	var req RenameWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if outcome := session.RenameWorkout(id, req.Name); outcome == domain.OutcomeNotFound {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	workout, _ := session.Workout(id)
	writeJSON(w, http.StatusOK, toWorkoutView(workout))
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}
	outcome, err := session.DiscardWorkout(r.Context(), id)
	if outcome == domain.OutcomeNotFound {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Persisted: err == nil})
}

func (h *Handler) completeWorkout(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}
	outcome, err := session.CompleteWorkout(r.Context(), id)
	if outcome == domain.OutcomeNotFound {
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
		return
	}
	workout, _ := session.Workout(id)
	wv := toWorkoutView(workout)
	writeJSON(w, http.StatusOK, CompleteWorkoutResponse{Workout: wv, Persisted: err == nil})
}

func (h *Handler) logExercise(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}
	var req LogExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	switch session.LogExercise(id, req.Name, req.Sets) {
	case domain.OutcomeNotFound:
		writeError(w, http.StatusNotFound, "not_found", "workout not found")
	case domain.OutcomeRejected:
		writeError(w, http.StatusBadRequest, "validation_failed", "exercise entry rejected")
	default:
		workout, _ := session.Workout(id)
		writeJSON(w, http.StatusOK, toWorkoutView(workout))
	}
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	session, ok := h.session(w, r, true)
	if !ok {
		return
	}
	err := session.Reset(r.Context())
	writeJSON(w, http.StatusOK, MutationResponse{Persisted: err == nil})
}

// AddExerciseRequest is the payload for POST /v1/exercises.
type AddExerciseRequest struct {
	Name string `json:"name"`
}

// Validate ensures request correctness.
func (r AddExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// StartDraftRequest is the optional payload for POST /v1/workouts/draft.
// The date defaults to the server's local calendar day.
type StartDraftRequest struct {
	Date string `json:"date,omitempty"`
}

// Validate ensures request correctness.
func (r StartDraftRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}

// RenameWorkoutRequest is the payload for PATCH /v1/workouts/{id}.
type RenameWorkoutRequest struct {
	Name string `json:"name"`
}

// LogExerciseRequest is the payload for POST /v1/workouts/{id}/exercises.
// Null set fields are blanks the user never filled in.
type LogExerciseRequest struct {
	Name string            `json:"name"`
	Sets []domain.SetInput `json:"sets"`
}

// ExerciseListResponse lists the sorted exercise library.
type ExerciseListResponse struct {
	Exercises []string `json:"exercises"`
}

// SetView is one committed set.
type SetView struct {
	Reps   float64 `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExerciseEntryView is one logged exercise with its sets.
type ExerciseEntryView struct {
	Name        string    `json:"name"`
	Sets        []SetView `json:"sets"`
	CompletedAt int64     `json:"completed_at"`
}

// WorkoutView exposes full details about a workout.
type WorkoutView struct {
	WorkoutID   string              `json:"workout_id"`
	Date        string              `json:"date"`
	Name        string              `json:"name,omitempty"`
	Status      string              `json:"status"`
	CreatedAt   int64               `json:"created_at"`
	CompletedAt int64               `json:"completed_at,omitempty"`
	Exercises   []ExerciseEntryView `json:"exercises"`
}

// WorkoutListResponse packages history results.
type WorkoutListResponse struct {
	Items []WorkoutView `json:"items"`
}

// LastTimeResponse is the most recent performance of an exercise, if any.
type LastTimeResponse struct {
	Found    bool               `json:"found"`
	Workout  *WorkoutView       `json:"workout,omitempty"`
	Exercise *ExerciseEntryView `json:"exercise,omitempty"`
}

// CompleteWorkoutResponse reports the finalized workout and whether the
// synchronous save succeeded. On save failure the completion still holds
// in memory and the next mutation retries persistence.
type CompleteWorkoutResponse struct {
	Workout   WorkoutView `json:"workout"`
	Persisted bool        `json:"persisted"`
}

// MutationResponse acknowledges a destructive mutation.
type MutationResponse struct {
	Persisted bool `json:"persisted"`
}

func toWorkoutView(workout domain.Workout) WorkoutView {
	entries := make([]ExerciseEntryView, 0, len(workout.Exercises))
	for _, entry := range workout.Exercises {
		entries = append(entries, toEntryView(entry))
	}
	return WorkoutView{
		WorkoutID:   workout.ID,
		Date:        workout.Date,
		Name:        workout.Name,
		Status:      string(workout.Status),
		CreatedAt:   workout.CreatedAt,
		CompletedAt: workout.CompletedAt,
		Exercises:   entries,
	}
}

func toEntryView(entry domain.ExerciseEntry) ExerciseEntryView {
	sets := make([]SetView, 0, len(entry.Sets))
	for _, set := range entry.Sets {
		sets = append(sets, SetView{Reps: set.Reps, Weight: set.Weight})
	}
	return ExerciseEntryView{
		Name:        entry.Name,
		Sets:        sets,
		CompletedAt: entry.CompletedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
