package substitute

import (
	"log/slog"
	"time"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// SessionStore is the mutable session state substitution operates on.
type SessionStore interface {
	Session(id string) (models.WorkoutSession, bool)
	PutSession(models.WorkoutSession)
	Instance(id string) (models.ExerciseInstance, bool)
	PutInstance(models.ExerciseInstance)
	DeleteInstance(id string)
	PutSet(models.ExerciseSet)
	DeleteSet(id string)
}

// PreferenceRecorder records learned preference signals. Recording is
// best effort: a failure is logged and never fails the substitution.
type PreferenceRecorder interface {
	Record(models.PreferenceSignal) error
}

// Substituter performs in-session exercise swaps.
type Substituter struct {
	exercises catalog.ExerciseCatalog
	protocols catalog.ProtocolCatalog
	store     SessionStore
	prefs     PreferenceRecorder
	log       *slog.Logger
}

// NewSubstituter creates a Substituter. prefs may be nil.
func NewSubstituter(exercises catalog.ExerciseCatalog, protocols catalog.ProtocolCatalog, store SessionStore, prefs PreferenceRecorder, log *slog.Logger) *Substituter {
	return &Substituter{exercises: exercises, protocols: protocols, store: store, prefs: prefs, log: log}
}

// Perform replaces the instance's exercise with newExerciseID,
// deleting the old instance and its sets and recreating both from
// the instance's protocol. The new sets carry rep targets only;
// weights stay nil until the next materialization pass.
//
// All lookups happen before any deletion, so a failed substitution
// leaves the session untouched.
func (s *Substituter) Perform(sessionID, instanceID, newExerciseID string, now time.Time) (models.ExerciseInstance, error) {
	session, ok := s.store.Session(sessionID)
	if !ok {
		return models.ExerciseInstance{}, &models.SubstitutionError{Kind: "session", ID: sessionID}
	}
	oldInstance, ok := s.store.Instance(instanceID)
	if !ok || oldInstance.SessionID != sessionID {
		return models.ExerciseInstance{}, &models.SubstitutionError{Kind: "instance", ID: instanceID}
	}
	position := -1
	for i, id := range session.InstanceIDs {
		if id == instanceID {
			position = i
			break
		}
	}
	if position < 0 {
		return models.ExerciseInstance{}, &models.SubstitutionError{Kind: "instance", ID: instanceID,
			Message: "instance not part of session " + sessionID}
	}
	newExercise, ok := s.exercises.Exercise(newExerciseID)
	if !ok {
		return models.ExerciseInstance{}, &models.SubstitutionError{Kind: "exercise", ID: newExerciseID}
	}
	protocol, ok := s.protocols.Protocol(oldInstance.ProtocolID)
	if !ok {
		return models.ExerciseInstance{}, &models.SubstitutionError{Kind: "protocol", ID: oldInstance.ProtocolID}
	}

	oldExerciseID := oldInstance.ExerciseID
	for _, setID := range oldInstance.SetIDs {
		s.store.DeleteSet(setID)
	}
	s.store.DeleteInstance(oldInstance.ID)

	newInstance := models.ExerciseInstance{
		ID:            models.InstanceID(sessionID, position),
		ExerciseID:    newExercise.ID,
		SessionID:     sessionID,
		ProtocolID:    protocol.ID,
		Status:        models.StatusPending,
		SupersetLabel: oldInstance.SupersetLabel,
	}
	for i, reps := range protocol.Reps {
		set := models.ExerciseSet{
			ID:         models.SetID(newInstance.ID, i+1),
			InstanceID: newInstance.ID,
			SetNumber:  i + 1,
			TargetReps: reps,
			CreatedAt:  now,
		}
		newInstance.SetIDs = append(newInstance.SetIDs, set.ID)
		s.store.PutSet(set)
	}
	s.store.PutInstance(newInstance)

	session.ExerciseIDs[position] = newExercise.ID
	session.InstanceIDs[position] = newInstance.ID
	s.store.PutSession(session)

	s.recordSignal(session, oldExerciseID, -1, now)
	s.recordSignal(session, newExercise.ID, +1, now)

	s.log.Info("exercise substituted",
		"session", sessionID, "position", position,
		"old", oldExerciseID, "new", newExercise.ID)
	return newInstance, nil
}

func (s *Substituter) recordSignal(session models.WorkoutSession, exerciseID string, weight int, now time.Time) {
	if s.prefs == nil {
		return
	}
	err := s.prefs.Record(models.PreferenceSignal{
		UserID:     session.UserID,
		ExerciseID: exerciseID,
		Split:      session.Split,
		Weight:     weight,
		RecordedAt: now,
	})
	if err != nil {
		s.log.Warn("recording preference signal failed", "exercise", exerciseID, "error", err)
	}
}
