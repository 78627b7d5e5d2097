// Package substitute ranks replacement exercises for a given one and
// performs the in-session swap.
package substitute

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// Scoring weights. Domain tuned values, preserved as data.
const (
	patternWeight        = 0.35
	muscleWeight         = 0.30
	baseExerciseWeight   = 0.20
	experienceWeight     = 0.10
	classificationWeight = 0.05

	minScore          = 0.20
	libraryMultiplier = 1.1
	primaryBonus      = 0.2
)

// Scorer finds ranked substitution candidates.
type Scorer struct {
	exercises catalog.ExerciseCatalog
	log       *slog.Logger
}

// NewScorer creates a Scorer over the exercise catalog.
func NewScorer(exercises catalog.ExerciseCatalog, log *slog.Logger) *Scorer {
	return &Scorer{exercises: exercises, log: log}
}

// FindAlternatives returns up to limit equipment-compatible
// candidates for the given exercise, best first. Library members get
// a 1.1x score boost (capped at 1.0) and an extra reason.
func (s *Scorer) FindAlternatives(exerciseID string, availableEquipment map[models.Equipment]bool, lib models.UserLibrary, userLevel models.ExperienceLevel, limit int) ([]models.SubstitutionCandidate, error) {
	original, ok := s.exercises.Exercise(exerciseID)
	if !ok {
		return nil, fmt.Errorf("exercise %q not in catalog", exerciseID)
	}

	var out []models.SubstitutionCandidate
	for _, cand := range s.exercises.Exercises() {
		if cand.ID == original.ID {
			continue
		}
		if len(availableEquipment) > 0 && !availableEquipment[cand.Equipment] {
			continue
		}
		score, reasons := CalculateScore(original, cand, userLevel)
		if score < minScore {
			continue
		}
		if lib.Contains(cand.ID) {
			score *= libraryMultiplier
			if score > 1.0 {
				score = 1.0
			}
			reasons = append(reasons, "from your library")
		}
		out = append(out, models.SubstitutionCandidate{Exercise: cand, Score: score, Reasons: reasons})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Exercise.ID < out[j].Exercise.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CalculateScore scores candidate as a substitute for original,
// returning the score in [0,1] and the display reasons.
//
// The experience component compares the candidate's difficulty
// against the user's level, not against the original exercise, so
// swapping the two inputs can change the score. Known, intentional
// behavior.
func CalculateScore(original, candidate models.Exercise, userLevel models.ExperienceLevel) (float64, []string) {
	var reasons []string

	pattern := patternScore(original.Pattern, candidate.Pattern)
	switch {
	case pattern == 1.0:
		reasons = append(reasons, "same movement pattern")
	case pattern == 0.5:
		reasons = append(reasons, "related movement pattern")
	}

	muscle := muscleScore(original, candidate)
	if len(sharedMuscles(original, candidate)) > 0 {
		reasons = append(reasons, fmt.Sprintf("targets %d shared muscle group(s)", len(sharedMuscles(original, candidate))))
	}

	base := 0.0
	if original.BaseExercise != "" && original.BaseExercise == candidate.BaseExercise {
		base = 1.0
		reasons = append(reasons, "variant of the same exercise")
	}

	experience := experienceScore(candidate.Difficulty, userLevel)
	if experience == 0.5 {
		reasons = append(reasons, "slightly more advanced")
	}

	class := 0.0
	if original.Classification == candidate.Classification {
		class = 1.0
	}

	if candidate.Equipment != original.Equipment {
		reasons = append(reasons, fmt.Sprintf("uses %s instead", candidate.Equipment))
	}

	score := patternWeight*pattern +
		muscleWeight*muscle +
		baseExerciseWeight*base +
		experienceWeight*experience +
		classificationWeight*class
	return score, reasons
}

// relatedPatterns scores 0.5 for antagonist or otherwise related
// movement pairs.
var relatedPatterns = map[[2]models.MovementPattern]bool{
	patternPair(models.PatternHorizontalPush, models.PatternVerticalPush): true,
	patternPair(models.PatternHorizontalPull, models.PatternVerticalPull): true,
	patternPair(models.PatternSquat, models.PatternLunge):                 true,
	patternPair(models.PatternSquat, models.PatternHinge):                 true,
	patternPair(models.PatternHinge, models.PatternLunge):                 true,
}

func patternPair(a, b models.MovementPattern) [2]models.MovementPattern {
	if b < a {
		a, b = b, a
	}
	return [2]models.MovementPattern{a, b}
}

func patternScore(a, b models.MovementPattern) float64 {
	if a == "" || b == "" {
		return 0.25
	}
	if a == b {
		return 1.0
	}
	if relatedPatterns[patternPair(a, b)] {
		return 0.5
	}
	return 0.0
}

// muscleScore is the Jaccard similarity of the muscle sets with a
// bonus when the primary muscles match exactly, capped at 1.0.
func muscleScore(a, b models.Exercise) float64 {
	if len(a.Muscles) == 0 || len(b.Muscles) == 0 {
		return 0
	}
	shared := len(sharedMuscles(a, b))
	union := len(a.Muscles) + len(b.Muscles) - shared
	score := float64(shared) / float64(union)
	if a.PrimaryMuscle() == b.PrimaryMuscle() {
		score += primaryBonus
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func sharedMuscles(a, b models.Exercise) []models.MuscleGroup {
	var shared []models.MuscleGroup
	for _, m := range a.Muscles {
		if b.TargetsMuscle(m) {
			shared = append(shared, m)
		}
	}
	return shared
}

// experienceScore is directional: 1.0 when the candidate is at or
// below the user's level, 0.5 when exactly one level harder, else 0.
func experienceScore(candidateLevel, userLevel models.ExperienceLevel) float64 {
	diff := candidateLevel.Rank() - userLevel.Rank()
	switch {
	case diff <= 0:
		return 1.0
	case diff == 1:
		return 0.5
	}
	return 0.0
}
