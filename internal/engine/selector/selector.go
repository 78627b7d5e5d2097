// Package selector chooses which exercises fill a session, given the
// catalog, the user's curated library and the session's criteria.
//
// Selection runs an ordered list of strategies, each a wider cut of
// the catalog than the last. A strategy either fills the requested
// counts or defers to the next; only after the widest strategy falls
// short does selection fail, with a typed error the caller must
// surface.
package selector

import (
	"log/slog"
	"sort"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// Selector ranks and picks exercises for sessions.
type Selector struct {
	exercises catalog.ExerciseCatalog
	log       *slog.Logger
}

// New creates a Selector over the given exercise catalog.
func New(exercises catalog.ExerciseCatalog, log *slog.Logger) *Selector {
	return &Selector{exercises: exercises, log: log}
}

// strategy is one widening step of the fallback chain.
type strategy struct {
	name        string
	libraryOnly bool
	anyLevel    bool
}

// The chain is ordered narrowest to widest. Later strategies admit a
// superset of earlier ones, so a pass that succeeds early is never
// contradicted by a wider pass.
var fallbackChain = []strategy{
	{name: "library", libraryOnly: true},
	{name: "catalog_at_level"},
	{name: "catalog_any_level", anyLevel: true},
}

// Select returns the ordered exercise IDs for a session, or a
// *models.SelectionError when even the widest fallback cannot fill
// the requested counts.
func (s *Selector) Select(criteria models.SelectionCriteria) ([]string, error) {
	if criteria.Split == models.SplitCardio {
		return s.selectCardio(criteria)
	}

	for i, strat := range fallbackChain {
		if strat.libraryOnly && len(criteria.Library) == 0 {
			continue
		}
		if i > 0 {
			s.log.Info("widening exercise selection",
				"strategy", strat.name, "split", string(criteria.Split))
		}

		compounds, isolations := s.pools(criteria, strat)
		pickedCompound := pickDiverse(compounds, criteria.CompoundCount, nil)
		pickedIsolation := pickDiverse(isolations, criteria.IsolationCount, pickedCompound)

		if len(pickedCompound) == criteria.CompoundCount && len(pickedIsolation) == criteria.IsolationCount {
			ids := make([]string, 0, len(pickedCompound)+len(pickedIsolation))
			for _, e := range pickedCompound {
				ids = append(ids, e.ID)
			}
			for _, e := range pickedIsolation {
				ids = append(ids, e.ID)
			}
			return ids, nil
		}
	}

	return nil, &models.SelectionError{
		Split:   criteria.Split,
		Message: "not enough suitable exercises for your equipment and experience level",
	}
}

// selectCardio returns the fixed single-exercise cardio template.
func (s *Selector) selectCardio(criteria models.SelectionCriteria) ([]string, error) {
	var pool []models.Exercise
	for _, e := range s.exercises.Exercises() {
		if e.Classification != models.ClassCardio {
			continue
		}
		if !criteria.EquipmentAllowed(e.Equipment) || criteria.ExcludedExercises[e.ID] {
			continue
		}
		pool = append(pool, e)
	}
	if len(pool) == 0 {
		return nil, &models.SelectionError{
			Split:   criteria.Split,
			Message: "no cardio exercise available for your equipment",
		}
	}
	sortRanked(pool, criteria, false)
	return []string{pool[0].ID}, nil
}

// pools partitions the catalog into ranked compound and isolation
// candidate lists for one strategy.
func (s *Selector) pools(criteria models.SelectionCriteria, strat strategy) (compounds, isolations []models.Exercise) {
	for _, e := range s.exercises.Exercises() {
		if !criteria.EquipmentAllowed(e.Equipment) || criteria.ExcludedExercises[e.ID] {
			continue
		}
		if strat.libraryOnly && !criteria.InLibrary(e.ID) {
			continue
		}
		if !strat.anyLevel && e.Difficulty.Rank() > criteria.Experience.Rank() {
			continue
		}
		switch e.Classification {
		case models.ClassCompound:
			compounds = append(compounds, e)
		case models.ClassIsolation:
			isolations = append(isolations, e)
		}
	}
	sortRanked(compounds, criteria, criteria.PreferBodyweight)
	sortRanked(isolations, criteria, false)
	return compounds, isolations
}

// sortRanked orders candidates by library tier, then bodyweight
// preference (compound pools only), then muscle-target match, with
// the exercise ID as the stable final key.
func sortRanked(pool []models.Exercise, criteria models.SelectionCriteria, preferBodyweight bool) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		aLib, bLib := criteria.InLibrary(a.ID), criteria.InLibrary(b.ID)
		if aLib != bLib {
			return aLib
		}
		if preferBodyweight {
			aBW, bBW := a.Equipment == models.EquipBodyweight, b.Equipment == models.EquipBodyweight
			if aBW != bBW {
				return aBW
			}
		}
		aScore, bScore := muscleMatch(a, criteria), muscleMatch(b, criteria)
		if aScore != bScore {
			return aScore > bScore
		}
		return a.ID < b.ID
	})
}

// muscleMatch scores how well an exercise hits the session's target
// and emphasized muscles. Primary-muscle hits count more than
// secondary ones.
func muscleMatch(e models.Exercise, criteria models.SelectionCriteria) int {
	score := 0
	primary := e.PrimaryMuscle()
	for _, m := range criteria.MuscleTargets {
		if m == primary {
			score += 3
		} else if e.TargetsMuscle(m) {
			score++
		}
	}
	for _, m := range criteria.EmphasizedMuscles {
		if m == primary {
			score += 2
		} else if e.TargetsMuscle(m) {
			score++
		}
	}
	return score
}

// pickDiverse takes up to n exercises from a ranked pool, avoiding a
// second exercise on an already-used base-exercise grouping. When the
// pool cannot fill n without duplicates, it fills the remainder from
// the skipped candidates in rank order.
func pickDiverse(pool []models.Exercise, n int, alreadyPicked []models.Exercise) []models.Exercise {
	if n <= 0 {
		return nil
	}
	usedBase := map[string]bool{}
	for _, e := range alreadyPicked {
		usedBase[e.BaseExercise] = true
	}

	picked := make([]models.Exercise, 0, n)
	var skipped []models.Exercise
	for _, e := range pool {
		if len(picked) == n {
			break
		}
		if e.BaseExercise != "" && usedBase[e.BaseExercise] {
			skipped = append(skipped, e)
			continue
		}
		usedBase[e.BaseExercise] = true
		picked = append(picked, e)
	}
	for _, e := range skipped {
		if len(picked) == n {
			break
		}
		picked = append(picked, e)
	}
	return picked
}
