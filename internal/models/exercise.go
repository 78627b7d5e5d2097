package models

// Classification describes the training role of an exercise.
type Classification string

const (
	ClassCompound  Classification = "compound"
	ClassIsolation Classification = "isolation"
	ClassWarmup    Classification = "warmup"
	ClassCooldown  Classification = "cooldown"
	ClassCardio    Classification = "cardio"
)

// Equipment identifies the implement an exercise is performed with.
type Equipment string

const (
	EquipBarbell        Equipment = "barbell"
	EquipDumbbell       Equipment = "dumbbell"
	EquipKettlebell     Equipment = "kettlebell"
	EquipCable          Equipment = "cable"
	EquipMachine        Equipment = "machine"
	EquipSmithMachine   Equipment = "smith_machine"
	EquipBodyweight     Equipment = "bodyweight"
	EquipResistanceBand Equipment = "resistance_band"
	EquipCardioMachine  Equipment = "cardio_machine"
)

// UsesRPE reports whether load for this equipment class is prescribed
// as perceived exertion rather than an absolute weight.
func (e Equipment) UsesRPE() bool {
	return e == EquipBodyweight || e == EquipResistanceBand
}

// FreeWeight reports whether the equipment is a free-weight implement,
// as opposed to machine-assisted. Used by 1RM confidence classification.
func (e Equipment) FreeWeight() bool {
	switch e {
	case EquipBarbell, EquipDumbbell, EquipKettlebell, EquipBodyweight:
		return true
	}
	return false
}

// MuscleGroup names a trained muscle group.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleLats       MuscleGroup = "lats"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleCore       MuscleGroup = "core"
	MuscleFullBody   MuscleGroup = "full_body"
)

// MovementPattern is the fundamental movement an exercise expresses.
// An empty pattern means the catalog does not classify the movement.
type MovementPattern string

const (
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternCarry          MovementPattern = "carry"
	PatternRotation       MovementPattern = "rotation"
	PatternIsolation      MovementPattern = "isolation"
	PatternCardio         MovementPattern = "cardio"
)

// ExperienceLevel is a user's (or exercise's required) training level.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// Rank orders experience levels for difficulty comparisons.
// Unknown levels rank above advanced so they never pass an "at or
// below user level" filter by accident.
func (l ExperienceLevel) Rank() int {
	switch l {
	case LevelBeginner:
		return 0
	case LevelIntermediate:
		return 1
	case LevelAdvanced:
		return 2
	}
	return 3
}

// OwnerScope records who authored a catalog entry. The programming
// algorithms never branch on it.
type OwnerScope string

const (
	ScopeMember  OwnerScope = "member"
	ScopeTrainer OwnerScope = "trainer"
	ScopeGym     OwnerScope = "gym"
)

// Exercise is a read-only catalog entry. Muscles is ordered with the
// primary muscle first.
type Exercise struct {
	ID             string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	BaseExercise   string          `yaml:"base_exercise" json:"baseExercise"`
	Equipment      Equipment       `yaml:"equipment" json:"equipment"`
	Classification Classification  `yaml:"classification" json:"classification"`
	Muscles        []MuscleGroup   `yaml:"muscles" json:"muscles"`
	Pattern        MovementPattern `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Difficulty     ExperienceLevel `yaml:"difficulty" json:"difficulty"`
	Scope          OwnerScope      `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// PrimaryMuscle returns the first listed muscle group, or "" when the
// catalog entry lists none.
func (e Exercise) PrimaryMuscle() MuscleGroup {
	if len(e.Muscles) == 0 {
		return ""
	}
	return e.Muscles[0]
}

// TargetsMuscle reports whether the exercise trains the given muscle
// group at all (primary or secondary).
func (e Exercise) TargetsMuscle(m MuscleGroup) bool {
	for _, mg := range e.Muscles {
		if mg == m {
			return true
		}
	}
	return false
}
