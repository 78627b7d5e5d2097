// Package superset regroups a session's exercises into paired or
// circuit execution groups. Pairing never crosses a shared
// base-exercise grouping: supersetting two variants of the same
// movement has no benefit.
package superset

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/liftlab/liftplan/internal/models"
)

// Style selects the grouping strategy.
type Style string

const (
	StyleNone              Style = "none"
	StyleExplicit          Style = "explicit"
	StyleCircuit           Style = "circuit"
	StyleAntagonist        Style = "antagonist"
	StyleAgonist           Style = "agonist"
	StyleCompoundIsolation Style = "compound_isolation"
)

// Rest durations in seconds. The "between" value applies to all but
// the last group member; the last member carries the "after rotation"
// rest.
const (
	pairRestBetween    = 30
	pairRestAfter      = 90
	circuitRestBetween = 15
	circuitRestAfter   = 120
)

// Auto-pair styles need at least this many exercises and form at most
// maxGroups groups.
const (
	minAutoPairExercises = 4
	maxGroups            = 2
)

// Pairer builds superset groups for a session.
type Pairer struct {
	log *slog.Logger
}

// New creates a Pairer.
func New(log *slog.Logger) *Pairer {
	return &Pairer{log: log}
}

// BuildGroups returns the superset groups for the session's exercise
// list, or nil when the style yields no grouping. explicit is only
// consulted for StyleExplicit.
func (p *Pairer) BuildGroups(exercises []models.Exercise, style Style, explicit [][]int, level models.ExperienceLevel) []models.SupersetGroup {
	switch style {
	case StyleExplicit:
		return p.explicitGroups(exercises, explicit)
	case StyleCircuit:
		return circuitGroup(exercises)
	case StyleAntagonist, StyleAgonist, StyleCompoundIsolation:
		if len(exercises) < minAutoPairExercises {
			return nil
		}
		return p.autoPair(exercises, style)
	}
	return nil
}

// explicitGroups validates caller-supplied position groupings. A
// position claimed by an earlier group is dropped from later ones; a
// group needs at least two surviving positions.
func (p *Pairer) explicitGroups(exercises []models.Exercise, explicit [][]int) []models.SupersetGroup {
	claimed := map[int]bool{}
	var groups []models.SupersetGroup
	for _, positions := range explicit {
		var kept []int
		seen := map[int]bool{}
		for _, pos := range positions {
			if pos < 0 || pos >= len(exercises) {
				p.log.Warn("superset position out of range", "position", pos)
				continue
			}
			if claimed[pos] || seen[pos] {
				p.log.Warn("superset position already claimed", "position", pos)
				continue
			}
			seen[pos] = true
			kept = append(kept, pos)
		}
		if len(kept) < 2 {
			continue
		}
		for _, pos := range kept {
			claimed[pos] = true
		}
		groups = append(groups, newGroup(len(groups)+1, kept, pairRestBetween, pairRestAfter))
	}
	return groups
}

// circuitGroup puts every position into one group with short rest
// between exercises and a longer rest after the full rotation.
func circuitGroup(exercises []models.Exercise) []models.SupersetGroup {
	if len(exercises) < 2 {
		return nil
	}
	positions := make([]int, len(exercises))
	for i := range positions {
		positions[i] = i
	}
	return []models.SupersetGroup{newGroup(1, positions, circuitRestBetween, circuitRestAfter)}
}

// candidate is one scored unordered position pair.
type candidate struct {
	a, b  int
	score float64
}

// autoPair scores every eligible pair, then greedily consumes the
// sorted list, skipping pairs that touch an already-used position,
// until maxGroups groups form or candidates run out.
func (p *Pairer) autoPair(exercises []models.Exercise, style Style) []models.SupersetGroup {
	var candidates []candidate
	for i := 0; i < len(exercises); i++ {
		for j := i + 1; j < len(exercises); j++ {
			a, b := exercises[i], exercises[j]
			if a.BaseExercise != "" && a.BaseExercise == b.BaseExercise {
				continue
			}
			score, ok := pairScore(a, b, style)
			if !ok {
				continue
			}
			candidates = append(candidates, candidate{a: i, b: j, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	used := map[int]bool{}
	var groups []models.SupersetGroup
	for _, c := range candidates {
		if len(groups) == maxGroups {
			break
		}
		if used[c.a] || used[c.b] {
			continue
		}
		used[c.a], used[c.b] = true, true
		groups = append(groups, newGroup(len(groups)+1, []int{c.a, c.b}, pairRestBetween, pairRestAfter))
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}

func newGroup(number int, positions []int, betweenSec, afterSec int) models.SupersetGroup {
	rest := make([]int, len(positions))
	for i := range rest {
		rest[i] = betweenSec
	}
	rest[len(rest)-1] = afterSec
	return models.SupersetGroup{
		ID:        uuid.NewString(),
		Number:    number,
		Positions: positions,
		RestSec:   rest,
	}
}

// Reorder rewrites the session's exercise order so grouped positions
// sit next to each other, remapping each group's stored positions to
// the new order. Ungrouped exercises follow in their original
// relative order.
func Reorder(exerciseIDs []string, groups []models.SupersetGroup) ([]string, []models.SupersetGroup) {
	if len(groups) == 0 {
		return exerciseIDs, groups
	}

	grouped := map[int]bool{}
	newOrder := make([]int, 0, len(exerciseIDs))
	remapped := make([]models.SupersetGroup, len(groups))
	for gi, g := range groups {
		remapped[gi] = g
		remapped[gi].Positions = make([]int, len(g.Positions))
		for mi, pos := range g.Positions {
			remapped[gi].Positions[mi] = len(newOrder)
			newOrder = append(newOrder, pos)
			grouped[pos] = true
		}
	}
	for pos := range exerciseIDs {
		if !grouped[pos] {
			newOrder = append(newOrder, pos)
		}
	}

	reordered := make([]string, len(exerciseIDs))
	for newPos, oldPos := range newOrder {
		reordered[newPos] = exerciseIDs[oldPos]
	}
	return reordered, remapped
}
