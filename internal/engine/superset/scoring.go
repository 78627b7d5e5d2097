package superset

import "github.com/liftlab/liftplan/internal/models"

// Antagonist scoring weights and the candidate threshold. Domain
// tuned values, preserved as data.
const (
	antagonistPatternWeight   = 0.5
	antagonistMuscleWeight    = 0.35
	antagonistEquipmentWeight = 0.15
	antagonistThreshold       = 0.4
)

// Agonist and compound-isolation base scores and bonuses.
const (
	agonistBase           = 0.6
	agonistMixBonus       = 0.25
	agonistEquipmentBonus = 0.15

	compIsoBase            = 0.5
	compIsoSharedMuscle    = 0.3
	compIsoDifferentMuscle = 0.15
	compIsoEquipmentBonus  = 0.1
)

// patternKey is an unordered movement-pattern pair.
type patternKey struct {
	a, b models.MovementPattern
}

func pk(a, b models.MovementPattern) patternKey {
	if b < a {
		a, b = b, a
	}
	return patternKey{a: a, b: b}
}

// Traditional opposite-pattern pairs score 1.0; complementary
// cross-region pairs score 0.6.
var antagonistPatterns = map[patternKey]float64{
	pk(models.PatternHorizontalPush, models.PatternHorizontalPull): 1.0,
	pk(models.PatternVerticalPush, models.PatternVerticalPull):     1.0,
	pk(models.PatternSquat, models.PatternHinge):                   1.0,

	pk(models.PatternSquat, models.PatternVerticalPull):          0.6,
	pk(models.PatternSquat, models.PatternHorizontalPull):        0.6,
	pk(models.PatternHinge, models.PatternHorizontalPush):        0.6,
	pk(models.PatternLunge, models.PatternHorizontalPull):        0.6,
	pk(models.PatternHorizontalPush, models.PatternVerticalPull): 0.6,
}

// muscleKey is an unordered primary-muscle pair.
type muscleKey struct {
	a, b models.MuscleGroup
}

func mk(a, b models.MuscleGroup) muscleKey {
	if b < a {
		a, b = b, a
	}
	return muscleKey{a: a, b: b}
}

// Fixed perfect/good/neutral opposition lookup over primary muscle
// pairs. Unlisted pairs score 0.
var muscleOpposition = map[muscleKey]float64{
	// perfect
	mk(models.MuscleChest, models.MuscleBack):       1.0,
	mk(models.MuscleChest, models.MuscleLats):       1.0,
	mk(models.MuscleBiceps, models.MuscleTriceps):   1.0,
	mk(models.MuscleQuads, models.MuscleHamstrings): 1.0,
	// good
	mk(models.MuscleShoulders, models.MuscleLats):    0.7,
	mk(models.MuscleShoulders, models.MuscleBack):    0.7,
	mk(models.MuscleQuads, models.MuscleGlutes):      0.7,
	mk(models.MuscleGlutes, models.MuscleHamstrings): 0.7,
	// neutral
	mk(models.MuscleChest, models.MuscleBiceps):   0.4,
	mk(models.MuscleBack, models.MuscleTriceps):   0.4,
	mk(models.MuscleCore, models.MuscleGlutes):    0.4,
	mk(models.MuscleQuads, models.MuscleCalves):   0.4,
	mk(models.MuscleCore, models.MuscleShoulders): 0.4,
}

// pairScore scores one unordered exercise pair for a style. The
// second return is false when the pair is ineligible for the style
// regardless of score.
func pairScore(a, b models.Exercise, style Style) (float64, bool) {
	switch style {
	case StyleAntagonist:
		return antagonistScore(a, b)
	case StyleAgonist:
		return agonistScore(a, b)
	case StyleCompoundIsolation:
		return compoundIsolationScore(a, b)
	}
	return 0, false
}

func antagonistScore(a, b models.Exercise) (float64, bool) {
	pattern := 0.0
	if a.Pattern != "" && b.Pattern != "" {
		pattern = antagonistPatterns[pk(a.Pattern, b.Pattern)]
	}
	muscle := muscleOpposition[mk(a.PrimaryMuscle(), b.PrimaryMuscle())]
	equipment := 0.0
	if a.Equipment == b.Equipment {
		equipment = 1.0
	}
	score := antagonistPatternWeight*pattern + antagonistMuscleWeight*muscle + antagonistEquipmentWeight*equipment
	if score < antagonistThreshold {
		return 0, false
	}
	return score, true
}

// agonistScore requires at least one isolation member, a shared
// primary muscle and differing base exercises.
func agonistScore(a, b models.Exercise) (float64, bool) {
	if a.Classification != models.ClassIsolation && b.Classification != models.ClassIsolation {
		return 0, false
	}
	if a.PrimaryMuscle() == "" || a.PrimaryMuscle() != b.PrimaryMuscle() {
		return 0, false
	}
	score := agonistBase
	if a.Classification != b.Classification {
		score += agonistMixBonus
	}
	if a.Equipment == b.Equipment {
		score += agonistEquipmentBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score, true
}

// compoundIsolationScore pairs every compound with every isolation
// exercise.
func compoundIsolationScore(a, b models.Exercise) (float64, bool) {
	if a.Classification == b.Classification {
		return 0, false
	}
	compoundFirst := a.Classification == models.ClassCompound && b.Classification == models.ClassIsolation
	isolationFirst := a.Classification == models.ClassIsolation && b.Classification == models.ClassCompound
	if !compoundFirst && !isolationFirst {
		return 0, false
	}
	score := compIsoBase
	if a.PrimaryMuscle() != "" && a.PrimaryMuscle() == b.PrimaryMuscle() {
		score += compIsoSharedMuscle
	} else {
		score += compIsoDifferentMuscle
	}
	if a.Equipment == b.Equipment {
		score += compIsoEquipmentBonus
	}
	return score, true
}
