package materialize

import (
	"math"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// Confidence classifies how trustworthy a 1RM equivalence estimate
// is, based on how the source and target equipment relate.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	}
	return "low"
}

// Estimates round to the nearest plate increment.
const plateIncrement = 5.0

// conversionKey is an ordered (source, target) equipment pair. The
// table is asymmetric on purpose: barbell→dumbbell is per-dumbbell
// load, not half the bar.
type conversionKey struct {
	from, to models.Equipment
}

// Domain tuned conversion factors, preserved as data.
var conversionFactors = map[conversionKey]float64{
	{models.EquipBarbell, models.EquipDumbbell}: 0.40,
	{models.EquipDumbbell, models.EquipBarbell}: 2.30,

	{models.EquipBarbell, models.EquipSmithMachine}: 1.05,
	{models.EquipSmithMachine, models.EquipBarbell}: 0.92,

	{models.EquipBarbell, models.EquipMachine}: 1.10,
	{models.EquipMachine, models.EquipBarbell}: 0.85,

	{models.EquipDumbbell, models.EquipKettlebell}: 0.95,
	{models.EquipKettlebell, models.EquipDumbbell}: 1.00,

	{models.EquipDumbbell, models.EquipCable}: 1.10,
	{models.EquipCable, models.EquipDumbbell}: 0.90,
}

// stabilityRank orders equipment by how much stabilization it
// demands; used as a ratio fallback when no explicit conversion
// factor exists.
var stabilityRank = map[models.Equipment]float64{
	models.EquipMachine:        1.00,
	models.EquipSmithMachine:   0.95,
	models.EquipBarbell:        0.90,
	models.EquipCable:          0.80,
	models.EquipDumbbell:       0.70,
	models.EquipKettlebell:     0.65,
	models.EquipBodyweight:     0.60,
	models.EquipResistanceBand: 0.50,
}

// TargetStore looks up a user's recorded one-rep-max targets.
type TargetStore interface {
	Target(userID, exerciseID string) (models.StrengthTarget, bool)
}

// Estimator derives a 1RM for an exercise the user has no direct
// record for, from recorded 1RMs on sibling exercises of the same
// base-exercise grouping.
type Estimator struct {
	exercises catalog.ExerciseCatalog
	targets   TargetStore
}

// NewEstimator creates an Estimator.
func NewEstimator(exercises catalog.ExerciseCatalog, targets TargetStore) *Estimator {
	return &Estimator{exercises: exercises, targets: targets}
}

// OneRepMax returns the user's 1RM for the exercise: the recorded
// target when one exists, otherwise the best sibling-based estimate.
func (e *Estimator) OneRepMax(userID string, exercise models.Exercise) (float64, bool) {
	if t, ok := e.targets.Target(userID, exercise.ID); ok {
		return t.Current, true
	}
	est, _, ok := e.Estimate(userID, exercise)
	return est, ok
}

// Estimate computes a 1RM equivalence estimate from siblings sharing
// the exercise's base-exercise grouping. Among candidates it prefers
// higher confidence, then higher raw source 1RM. The result rounds
// to the nearest plate increment.
func (e *Estimator) Estimate(userID string, exercise models.Exercise) (float64, Confidence, bool) {
	if exercise.BaseExercise == "" {
		return 0, ConfidenceLow, false
	}

	found := false
	var best float64
	var bestConf Confidence
	var bestRaw float64
	for _, sibling := range e.exercises.Exercises() {
		if sibling.ID == exercise.ID || sibling.BaseExercise != exercise.BaseExercise {
			continue
		}
		t, ok := e.targets.Target(userID, sibling.ID)
		if !ok || t.Current <= 0 {
			continue
		}
		conf := classifyConfidence(sibling.Equipment, exercise.Equipment)
		if found && (conf < bestConf || (conf == bestConf && t.Current <= bestRaw)) {
			continue
		}
		found = true
		best = t.Current * conversionFactor(sibling.Equipment, exercise.Equipment)
		bestConf = conf
		bestRaw = t.Current
	}
	if !found {
		return 0, ConfidenceLow, false
	}
	return math.Round(best/plateIncrement) * plateIncrement, bestConf, true
}

func conversionFactor(from, to models.Equipment) float64 {
	if from == to {
		return 1.0
	}
	if f, ok := conversionFactors[conversionKey{from, to}]; ok {
		return f
	}
	fromStab, okFrom := stabilityRank[from]
	toStab, okTo := stabilityRank[to]
	if !okFrom || !okTo {
		return 1.0
	}
	return toStab / fromStab
}

// classifyConfidence: same equipment or same broad class (free-weight
// vs machine-assisted) is high, a cross-class conversion is medium,
// anything the ranking table does not know is low.
func classifyConfidence(source, target models.Equipment) Confidence {
	if source == target {
		return ConfidenceHigh
	}
	_, okSource := stabilityRank[source]
	_, okTarget := stabilityRank[target]
	if !okSource || !okTarget {
		return ConfidenceLow
	}
	if source.FreeWeight() == target.FreeWeight() {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}
