package planner

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	liftplan "github.com/liftlab/liftplan"
	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/engine/materialize"
	assignor "github.com/liftlab/liftplan/internal/engine/protocols"
	"github.com/liftlab/liftplan/internal/engine/selector"
	"github.com/liftlab/liftplan/internal/engine/superset"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// saveRecorder captures asynchronous persistence dispatches.
type saveRecorder struct {
	calls chan string
}

func (r *saveRecorder) SaveSession(_ context.Context, session models.WorkoutSession, _ []models.ExerciseInstance, _ []models.ExerciseSet) error {
	r.calls <- session.ID
	return nil
}

func newTestPlanner(t *testing.T, store *memstore.Store, saver Saver) *Planner {
	t.Helper()
	exercises, err := catalog.LoadExercises(liftplan.SeedFS, "seed/exercises.yaml")
	if err != nil {
		t.Fatalf("loading seed exercises: %v", err)
	}
	protocols, err := catalog.LoadProtocols(liftplan.SeedFS, "seed/protocols.yaml")
	if err != nil {
		t.Fatalf("loading seed protocols: %v", err)
	}
	log := discardLogger()
	estimator := materialize.NewEstimator(exercises, store)
	return New(
		exercises, protocols,
		selector.New(exercises, log),
		assignor.New(protocols, nil, log),
		superset.New(log),
		materialize.New(protocols, estimator, nil, log),
		store, saver, log,
	)
}

func pushRequest() BuildRequest {
	return BuildRequest{
		UserID:          "u1",
		Split:           models.SplitPush,
		DurationMinutes: 60,
		Goal:            models.GoalHypertrophy,
		Experience:      models.LevelIntermediate,
		Progression: models.ProgressionConfig{
			Style:          models.ProgressionLinear,
			StartIntensity: 0.65,
			EndIntensity:   0.85,
			Weeks:          6,
		},
	}
}

func TestBuildSessionPipeline(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	plan, err := p.BuildSession(context.Background(), pushRequest(), now)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	sess := plan.Session
	if sess.ID == "" {
		t.Error("session has no ID")
	}
	if len(sess.ExerciseIDs) == 0 {
		t.Fatal("session has no exercises")
	}
	if len(sess.InstanceIDs) != len(sess.ExerciseIDs) {
		t.Errorf("instances = %d, exercises = %d; want parallel arrays",
			len(sess.InstanceIDs), len(sess.ExerciseIDs))
	}
	if !sess.Selected(now) {
		t.Error("session not marked selected today")
	}

	// Instances in position order with deterministic IDs.
	for i, inst := range plan.Instances {
		if inst.ID != models.InstanceID(sess.ID, i) {
			t.Errorf("instance %d ID = %s, want %s", i, inst.ID, models.InstanceID(sess.ID, i))
		}
		if inst.ProtocolID == "" {
			t.Errorf("instance %d has no protocol", i)
		}
		if inst.Status != models.StatusPending {
			t.Errorf("instance %d status = %s, want pending", i, inst.Status)
		}
		if len(inst.SetIDs) == 0 {
			t.Errorf("instance %d has no sets", i)
		}
	}

	// Every set belongs to an instance of this session.
	instanceIDs := map[string]bool{}
	for _, inst := range plan.Instances {
		instanceIDs[inst.ID] = true
	}
	for _, set := range plan.Sets {
		if !instanceIDs[set.InstanceID] {
			t.Errorf("set %s belongs to unknown instance %s", set.ID, set.InstanceID)
		}
		if set.TargetReps <= 0 {
			t.Errorf("set %s has no rep target", set.ID)
		}
	}

	// Committed to the store.
	if _, ok := store.Session(sess.ID); !ok {
		t.Error("session not stored")
	}

	// Week 1 of the linear program.
	if plan.Intensity != 0.65 {
		t.Errorf("intensity = %.2f, want 0.65", plan.Intensity)
	}
}

func TestBuildSessionSupersetsReordered(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	req := pushRequest()
	req.SupersetStyle = superset.StyleCompoundIsolation

	plan, err := p.BuildSession(context.Background(), req, time.Now())
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if len(plan.Session.Groups) == 0 {
		t.Skip("no superset groups formed for this catalog")
	}
	for _, g := range plan.Session.Groups {
		// Grouped positions are contiguous after the reorder.
		for i := 1; i < len(g.Positions); i++ {
			if g.Positions[i] != g.Positions[i-1]+1 {
				t.Errorf("group %d positions %v not contiguous", g.Number, g.Positions)
			}
		}
		// Members carry labels like "1a"/"1b".
		for mi, pos := range g.Positions {
			want := models.SupersetLabel(g.Number, mi)
			if got := plan.Instances[pos].SupersetLabel; got != want {
				t.Errorf("position %d label = %q, want %q", pos, got, want)
			}
		}
	}
}

func TestBuildSessionSelectionFailure(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	req := pushRequest()
	// No catalog entry uses this equipment alone.
	req.Equipment = []models.Equipment{models.EquipResistanceBand}

	_, err := p.BuildSession(context.Background(), req, time.Now())
	if err == nil {
		t.Fatal("BuildSession succeeded with impossible equipment")
	}
}

func TestEnsureSessionReusesSameDay(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	first, err := p.BuildSession(context.Background(), pushRequest(), now)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	req := pushRequest()
	req.SessionID = first.Session.ID
	later := now.Add(3 * time.Hour)
	second, err := p.EnsureSession(context.Background(), req, later)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	if second.Session.SelectedAt != first.Session.SelectedAt {
		t.Error("same-day EnsureSession rebuilt the session")
	}
	for i := range first.Session.ExerciseIDs {
		if second.Session.ExerciseIDs[i] != first.Session.ExerciseIDs[i] {
			t.Errorf("exercise %d changed on same-day reuse", i)
		}
	}
}

func TestEnsureSessionRebuildsNextDay(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	first, err := p.BuildSession(context.Background(), pushRequest(), now)
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	req := pushRequest()
	req.SessionID = first.Session.ID
	nextDay := now.AddDate(0, 0, 1)
	second, err := p.EnsureSession(context.Background(), req, nextDay)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	if !second.Session.SelectedAt.After(first.Session.SelectedAt) {
		t.Error("next-day EnsureSession did not reselect")
	}
}

func TestPlanLookup(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)

	built, err := p.BuildSession(context.Background(), pushRequest(), time.Now())
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	plan, ok := p.Plan(built.Session.ID, time.Now())
	if !ok {
		t.Fatal("Plan: session not found")
	}
	if len(plan.Instances) != len(built.Instances) {
		t.Errorf("instances = %d, want %d", len(plan.Instances), len(built.Instances))
	}
	if len(plan.Sets) != len(built.Sets) {
		t.Errorf("sets = %d, want %d", len(plan.Sets), len(built.Sets))
	}

	if _, ok := p.Plan("nope", time.Now()); ok {
		t.Error("Plan found unknown session")
	}
}

func TestBuildSessionDispatchesSave(t *testing.T) {
	store := memstore.New()
	rec := &saveRecorder{calls: make(chan string, 1)}
	p := newTestPlanner(t, store, rec)

	plan, err := p.BuildSession(context.Background(), pushRequest(), time.Now())
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}

	select {
	case id := <-rec.calls:
		if id != plan.Session.ID {
			t.Errorf("saved session %s, want %s", id, plan.Session.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no save dispatched")
	}
}

func TestCardioRequest(t *testing.T) {
	store := memstore.New()
	p := newTestPlanner(t, store, nil)
	req := pushRequest()
	req.Split = models.SplitCardio

	plan, err := p.BuildSession(context.Background(), req, time.Now())
	if err != nil {
		t.Fatalf("BuildSession: %v", err)
	}
	if len(plan.Session.ExerciseIDs) != 1 {
		t.Fatalf("cardio session has %d exercises, want 1", len(plan.Session.ExerciseIDs))
	}
	if len(plan.Sets) == 0 {
		t.Fatal("cardio session has no sets")
	}
	if plan.Sets[0].TargetSeconds == 0 {
		t.Error("cardio set has no duration target")
	}
}
