package memstore

import (
	"testing"
	"time"

	"github.com/liftlab/liftplan/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	s := New()
	sess := models.WorkoutSession{
		ID:          "sess1",
		UserID:      "u1",
		Split:       models.SplitPush,
		ExerciseIDs: []string{"bench_bb"},
		InstanceIDs: []string{"sess1_ex0"},
		SelectedAt:  time.Now(),
	}
	s.PutSession(sess)

	got, ok := s.Session("sess1")
	if !ok {
		t.Fatal("session not found")
	}
	if got.UserID != "u1" || len(got.ExerciseIDs) != 1 {
		t.Errorf("session = %+v", got)
	}

	if _, ok := s.Session("nope"); ok {
		t.Error("unknown session found")
	}

	s.DeleteSession("sess1")
	if _, ok := s.Session("sess1"); ok {
		t.Error("session still present after delete")
	}
}

// Returned sessions are detached: mutating a read copy must not leak
// into the store.
func TestSessionCopyOnRead(t *testing.T) {
	s := New()
	s.PutSession(models.WorkoutSession{
		ID:          "sess1",
		ExerciseIDs: []string{"a", "b"},
		Groups:      []models.SupersetGroup{{Number: 1, Positions: []int{0, 1}, RestSec: []int{30, 90}}},
	})

	got, _ := s.Session("sess1")
	got.ExerciseIDs[0] = "mutated"
	got.Groups[0].Positions[0] = 99

	again, _ := s.Session("sess1")
	if again.ExerciseIDs[0] != "a" {
		t.Errorf("stored exercise = %q, want %q", again.ExerciseIDs[0], "a")
	}
	if again.Groups[0].Positions[0] != 0 {
		t.Errorf("stored group position = %d, want 0", again.Groups[0].Positions[0])
	}
}

func TestInstancesForSkipsMissing(t *testing.T) {
	s := New()
	s.PutInstance(models.ExerciseInstance{ID: "i1", SessionID: "sess1"})
	sess := models.WorkoutSession{ID: "sess1", InstanceIDs: []string{"i1", "gone"}}

	got := s.InstancesFor(sess)
	if len(got) != 1 || got[0].ID != "i1" {
		t.Errorf("instances = %v, want [i1]", got)
	}
}

func TestSetsForOrder(t *testing.T) {
	s := New()
	inst := models.ExerciseInstance{ID: "i1", SetIDs: []string{"i1_s1", "i1_s2"}}
	s.PutSet(models.ExerciseSet{ID: "i1_s2", InstanceID: "i1", SetNumber: 2})
	s.PutSet(models.ExerciseSet{ID: "i1_s1", InstanceID: "i1", SetNumber: 1})

	got := s.SetsFor(inst)
	if len(got) != 2 {
		t.Fatalf("sets = %d, want 2", len(got))
	}
	if got[0].SetNumber != 1 || got[1].SetNumber != 2 {
		t.Errorf("set order = %d, %d; want 1, 2", got[0].SetNumber, got[1].SetNumber)
	}
}

func TestLibraryDetached(t *testing.T) {
	s := New()
	s.PutLibrary(models.UserLibrary{UserID: "u1", ExerciseIDs: map[string]bool{"bench_bb": true}})

	lib, ok := s.Library("u1")
	if !ok {
		t.Fatal("library not found")
	}
	lib.ExerciseIDs["injected"] = true

	again, _ := s.Library("u1")
	if again.ExerciseIDs["injected"] {
		t.Error("mutation of a read copy leaked into the store")
	}
}

func TestTargetsKeyedPerUser(t *testing.T) {
	s := New()
	s.PutTarget(models.StrengthTarget{UserID: "u1", ExerciseID: "bench_bb", Current: 100})
	s.PutTarget(models.StrengthTarget{UserID: "u2", ExerciseID: "bench_bb", Current: 80})

	t1, ok := s.Target("u1", "bench_bb")
	if !ok || t1.Current != 100 {
		t.Errorf("u1 target = %+v, want 100", t1)
	}
	t2, _ := s.Target("u2", "bench_bb")
	if t2.Current != 80 {
		t.Errorf("u2 target = %.0f, want 80", t2.Current)
	}
	if _, ok := s.Target("u1", "squat_bb"); ok {
		t.Error("unknown target found")
	}
}
