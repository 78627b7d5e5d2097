package substitute

import (
	"errors"
	"testing"
	"time"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/models"
)

func performProtocols() *catalog.Protocols {
	return catalog.NewProtocols([]models.ProtocolConfig{
		{ID: "cmp_volume_4x8", Family: models.FamilyHypertrophy,
			Reps: []int{8, 8, 8}, RPE: []float64{7, 7, 7}},
	})
}

// seedSession stores a one-exercise session with a materialized
// instance and sets, returning the session and instance IDs.
func seedSession(t *testing.T, store *memstore.Store) (string, string) {
	t.Helper()
	sessionID := "sess1"
	instanceID := models.InstanceID(sessionID, 0)
	weight := 100.0

	inst := models.ExerciseInstance{
		ID:         instanceID,
		ExerciseID: "bench_bb",
		SessionID:  sessionID,
		ProtocolID: "cmp_volume_4x8",
		Status:     models.StatusPending,
	}
	for i := 0; i < 3; i++ {
		set := models.ExerciseSet{
			ID:           models.SetID(instanceID, i+1),
			InstanceID:   instanceID,
			SetNumber:    i + 1,
			TargetReps:   8,
			TargetWeight: &weight,
		}
		inst.SetIDs = append(inst.SetIDs, set.ID)
		store.PutSet(set)
	}
	store.PutInstance(inst)
	store.PutSession(models.WorkoutSession{
		ID:          sessionID,
		UserID:      "u1",
		Split:       models.SplitPush,
		ExerciseIDs: []string{"bench_bb"},
		InstanceIDs: []string{instanceID},
		SelectedAt:  time.Now(),
	})
	return sessionID, instanceID
}

type recordedSignals struct {
	signals []models.PreferenceSignal
}

func (r *recordedSignals) Record(sig models.PreferenceSignal) error {
	r.signals = append(r.signals, sig)
	return nil
}

func TestPerformSubstitution(t *testing.T) {
	store := memstore.New()
	sessionID, instanceID := seedSession(t, store)
	prefs := &recordedSignals{}
	sub := NewSubstituter(scoreCatalog(), performProtocols(), store, prefs, discardLogger())
	now := time.Now()

	newInst, err := sub.Perform(sessionID, instanceID, "bench_db", now)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if newInst.ExerciseID != "bench_db" {
		t.Errorf("new instance exercise = %s, want bench_db", newInst.ExerciseID)
	}
	if newInst.ID != models.InstanceID(sessionID, 0) {
		t.Errorf("new instance ID = %s, want position-derived ID", newInst.ID)
	}
	if newInst.ProtocolID != "cmp_volume_4x8" {
		t.Errorf("protocol = %s, want the old instance's protocol", newInst.ProtocolID)
	}

	// Sets recreated from the protocol: rep targets only, no weights
	// until the next materialization.
	sets := store.SetsFor(newInst)
	if len(sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(sets))
	}
	for i, set := range sets {
		if set.TargetReps != 8 {
			t.Errorf("set %d target reps = %d, want 8", i+1, set.TargetReps)
		}
		if set.TargetWeight != nil {
			t.Errorf("set %d carries weight %.1f, want none", i+1, *set.TargetWeight)
		}
		if set.SetNumber != i+1 {
			t.Errorf("set number = %d, want %d", set.SetNumber, i+1)
		}
	}

	// Session arrays updated in place at the position.
	session, ok := store.Session(sessionID)
	if !ok {
		t.Fatal("session gone after substitution")
	}
	if session.ExerciseIDs[0] != "bench_db" {
		t.Errorf("session exercise = %s, want bench_db", session.ExerciseIDs[0])
	}
	if session.InstanceIDs[0] != newInst.ID {
		t.Errorf("session instance = %s, want %s", session.InstanceIDs[0], newInst.ID)
	}

	// Preference signals: -1 for the outgoing, +1 for the incoming.
	if len(prefs.signals) != 2 {
		t.Fatalf("signals = %d, want 2", len(prefs.signals))
	}
	if prefs.signals[0].ExerciseID != "bench_bb" || prefs.signals[0].Weight != -1 {
		t.Errorf("first signal = %+v, want bench_bb/-1", prefs.signals[0])
	}
	if prefs.signals[1].ExerciseID != "bench_db" || prefs.signals[1].Weight != +1 {
		t.Errorf("second signal = %+v, want bench_db/+1", prefs.signals[1])
	}
	if prefs.signals[0].Split != models.SplitPush {
		t.Errorf("signal split = %s, want push", prefs.signals[0].Split)
	}
}

func TestPerformErrorsLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		instanceID string
		exerciseID string
		wantKind   string
	}{
		{"unknown session", "nope", "sess1_ex0", "bench_db", "session"},
		{"unknown instance", "sess1", "nope", "bench_db", "instance"},
		{"unknown exercise", "sess1", "sess1_ex0", "nope", "exercise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			sessionID, instanceID := seedSession(t, store)
			sub := NewSubstituter(scoreCatalog(), performProtocols(), store, nil, discardLogger())

			_, err := sub.Perform(tt.sessionID, tt.instanceID, tt.exerciseID, time.Now())
			var subErr *models.SubstitutionError
			if !errors.As(err, &subErr) {
				t.Fatalf("error = %v, want *models.SubstitutionError", err)
			}
			if subErr.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", subErr.Kind, tt.wantKind)
			}

			// Old instance and sets still present.
			inst, ok := store.Instance(instanceID)
			if !ok {
				t.Fatal("original instance deleted on failed substitution")
			}
			if got := len(store.SetsFor(inst)); got != 3 {
				t.Errorf("sets = %d, want 3", got)
			}
			session, _ := store.Session(sessionID)
			if session.ExerciseIDs[0] != "bench_bb" {
				t.Errorf("session exercise = %s, want untouched bench_bb", session.ExerciseIDs[0])
			}
		})
	}
}

func TestPerformInstanceFromOtherSession(t *testing.T) {
	store := memstore.New()
	seedSession(t, store)
	store.PutSession(models.WorkoutSession{ID: "sess2", UserID: "u1", Split: models.SplitPush})
	sub := NewSubstituter(scoreCatalog(), performProtocols(), store, nil, discardLogger())

	_, err := sub.Perform("sess2", models.InstanceID("sess1", 0), "bench_db", time.Now())
	var subErr *models.SubstitutionError
	if !errors.As(err, &subErr) {
		t.Fatalf("error = %v, want *models.SubstitutionError", err)
	}
	if subErr.Kind != "instance" {
		t.Errorf("kind = %s, want instance", subErr.Kind)
	}
}

func TestPerformNilPreferenceRecorder(t *testing.T) {
	store := memstore.New()
	sessionID, instanceID := seedSession(t, store)
	sub := NewSubstituter(scoreCatalog(), performProtocols(), store, nil, discardLogger())

	if _, err := sub.Perform(sessionID, instanceID, "bench_db", time.Now()); err != nil {
		t.Fatalf("Perform with nil recorder: %v", err)
	}
}
