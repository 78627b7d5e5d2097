package selector

import "github.com/liftlab/liftplan/internal/models"

// Time-allocation model: 90% of a session is working-exercise time,
// a compound slot averages 7 minutes, an isolation slot 5. Domain
// tuned values, not derived.
const (
	exerciseTimeFraction = 0.90
	avgCompoundMinutes   = 7.0
	avgIsolationMinutes  = 5.0
)

// PlanCounts derives the compound and isolation exercise counts for a
// session from its duration in minutes and the compound time
// allocation fraction, then applies split-specific floors/ceilings
// and the global [1,6]/[0,5] bounds.
//
// Cardio splits bypass budgeting entirely: a cardio session is a
// fixed single-exercise template.
func PlanCounts(durationMinutes int, allocation float64, split models.Split) (compound, isolation int) {
	if split == models.SplitCardio {
		return 1, 0
	}

	exerciseTime := float64(durationMinutes) * exerciseTimeFraction
	compound = int(exerciseTime * allocation / avgCompoundMinutes)
	isolation = int(exerciseTime * (1 - allocation) / avgIsolationMinutes)

	switch {
	case split == models.SplitFullBody:
		if compound < 3 {
			compound = 3
		}
		if isolation > 2 {
			isolation = 2
		}
	case split == models.SplitArms:
		if isolation < 3 {
			isolation = 3
		}
		if compound > 2 {
			compound = 2
		}
	case split.SingleMuscleFocus():
		if compound > 3 {
			compound = 3
		}
	}

	if compound < models.MinCompoundCount {
		compound = models.MinCompoundCount
	}
	if compound > models.MaxCompoundCount {
		compound = models.MaxCompoundCount
	}
	if isolation < models.MinIsolationCount {
		isolation = models.MinIsolationCount
	}
	if isolation > models.MaxIsolationCount {
		isolation = models.MaxIsolationCount
	}
	return compound, isolation
}
