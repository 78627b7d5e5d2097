package selector

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// A small push-day shaped catalog: four compounds across two base
// exercises, three isolations, one advanced entry, one cardio entry.
func testCatalog() *catalog.Exercises {
	return catalog.NewExercises([]models.Exercise{
		{ID: "bench_bb", Name: "Barbell Bench Press", BaseExercise: "bench_press",
			Equipment: models.EquipBarbell, Classification: models.ClassCompound,
			Muscles:    []models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
			Pattern:    models.PatternHorizontalPush, Difficulty: models.LevelIntermediate},
		{ID: "bench_db", Name: "Dumbbell Bench Press", BaseExercise: "bench_press",
			Equipment: models.EquipDumbbell, Classification: models.ClassCompound,
			Muscles:    []models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
			Pattern:    models.PatternHorizontalPush, Difficulty: models.LevelBeginner},
		{ID: "ohp_bb", Name: "Overhead Press", BaseExercise: "overhead_press",
			Equipment: models.EquipBarbell, Classification: models.ClassCompound,
			Muscles:    []models.MuscleGroup{models.MuscleShoulders, models.MuscleTriceps},
			Pattern:    models.PatternVerticalPush, Difficulty: models.LevelIntermediate},
		{ID: "pushup", Name: "Push-Up", BaseExercise: "pushup",
			Equipment: models.EquipBodyweight, Classification: models.ClassCompound,
			Muscles:    []models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
			Pattern:    models.PatternHorizontalPush, Difficulty: models.LevelBeginner},
		{ID: "dip_ring", Name: "Ring Dip", BaseExercise: "dip",
			Equipment: models.EquipBodyweight, Classification: models.ClassCompound,
			Muscles:    []models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
			Pattern:    models.PatternVerticalPush, Difficulty: models.LevelAdvanced},
		{ID: "fly_cable", Name: "Cable Fly", BaseExercise: "fly",
			Equipment: models.EquipCable, Classification: models.ClassIsolation,
			Muscles:    []models.MuscleGroup{models.MuscleChest},
			Pattern:    models.PatternIsolation, Difficulty: models.LevelBeginner},
		{ID: "lateral_db", Name: "Lateral Raise", BaseExercise: "lateral_raise",
			Equipment: models.EquipDumbbell, Classification: models.ClassIsolation,
			Muscles:    []models.MuscleGroup{models.MuscleShoulders},
			Pattern:    models.PatternIsolation, Difficulty: models.LevelBeginner},
		{ID: "pushdown", Name: "Triceps Pushdown", BaseExercise: "pushdown",
			Equipment: models.EquipCable, Classification: models.ClassIsolation,
			Muscles:    []models.MuscleGroup{models.MuscleTriceps},
			Pattern:    models.PatternIsolation, Difficulty: models.LevelBeginner},
		{ID: "row_erg", Name: "Rowing Machine", BaseExercise: "row_erg",
			Equipment: models.EquipCardioMachine, Classification: models.ClassCardio,
			Muscles:    []models.MuscleGroup{models.MuscleFullBody},
			Pattern:    models.PatternCardio, Difficulty: models.LevelBeginner},
	})
}

func pushCriteria(t *testing.T, c models.SelectionCriteria) models.SelectionCriteria {
	t.Helper()
	c.Split = models.SplitPush
	c.MuscleTargets = []models.MuscleGroup{models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps}
	if c.Experience == "" {
		c.Experience = models.LevelIntermediate
	}
	out, err := models.NewSelectionCriteria(c)
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	return out
}

func TestSelectFillsRequestedCounts(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{CompoundCount: 2, IsolationCount: 2})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("selected %d exercises, want 4", len(ids))
	}
	// Compounds lead, isolations follow.
	ex := exercisesByID(t, ids)
	for i, e := range ex[:2] {
		if e.Classification != models.ClassCompound {
			t.Errorf("position %d: classification = %s, want compound", i, e.Classification)
		}
	}
	for i, e := range ex[2:] {
		if e.Classification != models.ClassIsolation {
			t.Errorf("position %d: classification = %s, want isolation", i+2, e.Classification)
		}
	}
}

func exercisesByID(t *testing.T, ids []string) []models.Exercise {
	t.Helper()
	cat := testCatalog()
	out := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		e, ok := cat.Exercise(id)
		if !ok {
			t.Fatalf("selected unknown exercise %q", id)
		}
		out = append(out, e)
	}
	return out
}

func TestSelectBaseExerciseDiversity(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{CompoundCount: 3, IsolationCount: 0})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// bench_bb and bench_db share a base exercise; only one may appear
	// while another base is available.
	bases := map[string]int{}
	for _, e := range exercisesByID(t, ids) {
		bases[e.BaseExercise]++
	}
	for base, n := range bases {
		if n > 1 {
			t.Errorf("base exercise %q selected %d times", base, n)
		}
	}
}

func TestSelectLibraryPreferred(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:  1,
		IsolationCount: 0,
		Library:        map[string]bool{"ohp_bb": true},
	})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ids[0] != "ohp_bb" {
		t.Errorf("selected %q, want library exercise ohp_bb", ids[0])
	}
}

// A library too small for the counts must fall through to the wider
// catalog strategies rather than fail.
func TestSelectFallsBackPastThinLibrary(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:  3,
		IsolationCount: 2,
		Library:        map[string]bool{"bench_bb": true},
	})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(ids) != 5 {
		t.Errorf("selected %d exercises, want 5", len(ids))
	}
}

// The widest strategy admits exercises above the user's level; a
// beginner asking for more compounds than exist at their level still
// gets a full session.
func TestSelectWidensPastExperienceLevel(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:  5,
		IsolationCount: 0,
		Experience:     models.LevelBeginner,
	})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("selected %d exercises, want 5", len(ids))
	}
	found := false
	for _, id := range ids {
		if id == "dip_ring" {
			found = true
		}
	}
	if !found {
		t.Errorf("advanced dip_ring not selected; widest strategy should admit it")
	}
}

func TestSelectExhaustedReturnsSelectionError(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:  6,
		IsolationCount: 5,
	})

	_, err := s.Select(criteria)
	if err == nil {
		t.Fatal("Select succeeded; want selection error")
	}
	var selErr *models.SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("error type = %T, want *models.SelectionError", err)
	}
	if selErr.Split != models.SplitPush {
		t.Errorf("error split = %s, want push", selErr.Split)
	}
}

func TestSelectEquipmentRestriction(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:  2,
		IsolationCount: 0,
		AllowedEquipment: map[models.Equipment]bool{
			models.EquipBodyweight: true,
		},
		Experience: models.LevelAdvanced,
	})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for _, e := range exercisesByID(t, ids) {
		if e.Equipment != models.EquipBodyweight {
			t.Errorf("%s uses %s, want bodyweight only", e.ID, e.Equipment)
		}
	}
}

func TestSelectPreferBodyweightCompounds(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{
		CompoundCount:    1,
		IsolationCount:   0,
		PreferBodyweight: true,
	})

	ids, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if ids[0] != "pushup" {
		t.Errorf("selected %q, want bodyweight pushup first", ids[0])
	}
}

func TestSelectCardioTemplate(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria, err := models.NewSelectionCriteria(models.SelectionCriteria{
		Split:         models.SplitCardio,
		CompoundCount: 1,
		Experience:    models.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}

	ids, serr := s.Select(criteria)
	if serr != nil {
		t.Fatalf("Select: %v", serr)
	}
	if len(ids) != 1 || ids[0] != "row_erg" {
		t.Errorf("cardio selection = %v, want [row_erg]", ids)
	}
}

func TestSelectCardioNoEquipmentError(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria, err := models.NewSelectionCriteria(models.SelectionCriteria{
		Split:         models.SplitCardio,
		CompoundCount: 1,
		AllowedEquipment: map[models.Equipment]bool{
			models.EquipBarbell: true,
		},
		Experience: models.LevelBeginner,
	})
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}

	_, serr := s.Select(criteria)
	var selErr *models.SelectionError
	if !errors.As(serr, &selErr) {
		t.Fatalf("error = %v, want *models.SelectionError", serr)
	}
}

// Selection is deterministic: the same criteria always yield the same
// ordered IDs.
func TestSelectDeterministic(t *testing.T) {
	s := New(testCatalog(), discardLogger())
	criteria := pushCriteria(t, models.SelectionCriteria{CompoundCount: 3, IsolationCount: 2})

	first, err := s.Select(criteria)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Select(criteria)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: len = %d, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Errorf("run %d: ids[%d] = %s, want %s", i, j, again[j], first[j])
			}
		}
	}
}
