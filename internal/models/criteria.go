package models

import "fmt"

// Split is the muscle-group focus of a single session.
type Split string

const (
	SplitFullBody  Split = "full_body"
	SplitPush      Split = "push"
	SplitPull      Split = "pull"
	SplitLegs      Split = "legs"
	SplitUpper     Split = "upper"
	SplitLower     Split = "lower"
	SplitChest     Split = "chest"
	SplitBack      Split = "back"
	SplitShoulders Split = "shoulders"
	SplitArms      Split = "arms"
	SplitCore      Split = "core"
	SplitCardio    Split = "cardio"
)

// SingleMuscleFocus reports whether the split concentrates on one
// muscle group (affects compound count caps during derivation).
func (s Split) SingleMuscleFocus() bool {
	switch s {
	case SplitChest, SplitBack, SplitShoulders, SplitCore:
		return true
	}
	return false
}

// Goal is the user's training goal.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
	GoalGeneral     Goal = "general_fitness"
)

// Bounds applied to derived exercise counts.
const (
	MinCompoundCount  = 1
	MaxCompoundCount  = 6
	MinIsolationCount = 0
	MaxIsolationCount = 5
)

// SelectionCriteria is the ephemeral, per-session input to exercise
// selection. Construct via NewSelectionCriteria so the count bounds
// hold by the time the selector sees it.
type SelectionCriteria struct {
	Split             Split
	MuscleTargets     []MuscleGroup
	CompoundCount     int
	IsolationCount    int
	EmphasizedMuscles []MuscleGroup
	AllowedEquipment  map[Equipment]bool
	ExcludedExercises map[string]bool
	Goal              Goal
	Intensity         float64 // 0..1
	Experience        ExperienceLevel
	Library           map[string]bool
	PreferBodyweight  bool
}

// NewSelectionCriteria validates the invariant ranges that every
// downstream component assumes.
func NewSelectionCriteria(c SelectionCriteria) (SelectionCriteria, error) {
	if c.CompoundCount < MinCompoundCount || c.CompoundCount > MaxCompoundCount {
		return SelectionCriteria{}, fmt.Errorf("compound count %d out of range [%d,%d]",
			c.CompoundCount, MinCompoundCount, MaxCompoundCount)
	}
	if c.IsolationCount < MinIsolationCount || c.IsolationCount > MaxIsolationCount {
		return SelectionCriteria{}, fmt.Errorf("isolation count %d out of range [%d,%d]",
			c.IsolationCount, MinIsolationCount, MaxIsolationCount)
	}
	if c.Intensity < 0 || c.Intensity > 1 {
		return SelectionCriteria{}, fmt.Errorf("intensity %.2f out of range [0,1]", c.Intensity)
	}
	if c.AllowedEquipment == nil {
		c.AllowedEquipment = map[Equipment]bool{}
	}
	if c.ExcludedExercises == nil {
		c.ExcludedExercises = map[string]bool{}
	}
	return c, nil
}

// EquipmentAllowed reports whether the given equipment may be used.
// An empty allowed set means no restriction.
func (c SelectionCriteria) EquipmentAllowed(e Equipment) bool {
	if len(c.AllowedEquipment) == 0 {
		return true
	}
	return c.AllowedEquipment[e]
}

// InLibrary reports whether the exercise is in the user's curated
// library. A nil library means the user has none.
func (c SelectionCriteria) InLibrary(exerciseID string) bool {
	return c.Library != nil && c.Library[exerciseID]
}
