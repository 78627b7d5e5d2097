// Package materialize turns a session's selected exercises and
// assigned protocols into concrete instances and per-set targets.
package materialize

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// Default RPE targets when the protocol prescribes none.
const (
	defaultBodyweightRPE = 7.0
	defaultIsolationRPE  = 9.0
)

// Working weights round to the smallest common plate pair.
const workingIncrement = 2.5

// WeightCalculator is the external working-weight collaborator for
// isolation exercises. A false return means no 1RM data exists for
// the user and the set simply carries no weight target.
type WeightCalculator interface {
	Calculate(userID string, ex models.Exercise, class models.Classification, baseIntensity, offset float64, rpe float64) (float64, bool)
}

// Materializer builds instances and sets for a session.
type Materializer struct {
	protocols catalog.ProtocolCatalog
	estimator *Estimator
	calc      WeightCalculator
	log       *slog.Logger
}

// New creates a Materializer. calc may be nil, in which case
// isolation exercises get no weight target.
func New(protocols catalog.ProtocolCatalog, estimator *Estimator, calc WeightCalculator, log *slog.Logger) *Materializer {
	return &Materializer{protocols: protocols, estimator: estimator, calc: calc, log: log}
}

// Materialize generates one instance per session position and one
// set per protocol rep entry, deriving each set's single target kind
// from the exercise's equipment class and classification.
func (m *Materializer) Materialize(session models.WorkoutSession, exercises []models.Exercise, assigned map[int]string, weeklyIntensity float64, now time.Time) ([]models.ExerciseInstance, []models.ExerciseSet, error) {
	if len(exercises) != len(session.ExerciseIDs) {
		return nil, nil, fmt.Errorf("session %s has %d exercise IDs but %d resolved exercises",
			session.ID, len(session.ExerciseIDs), len(exercises))
	}

	labels := supersetLabels(session.Groups)
	instances := make([]models.ExerciseInstance, 0, len(exercises))
	var sets []models.ExerciseSet

	for pos, ex := range exercises {
		protocolID, ok := assigned[pos]
		if !ok {
			return nil, nil, fmt.Errorf("no protocol assigned for position %d", pos)
		}
		protocol, ok := m.protocols.Protocol(protocolID)
		if !ok {
			return nil, nil, fmt.Errorf("assigned protocol %q not in catalog", protocolID)
		}

		instance := models.ExerciseInstance{
			ID:            models.InstanceID(session.ID, pos),
			ExerciseID:    ex.ID,
			SessionID:     session.ID,
			ProtocolID:    protocol.ID,
			Status:        models.StatusPending,
			SupersetLabel: labels[pos],
		}
		for i, reps := range protocol.Reps {
			set := models.ExerciseSet{
				ID:         models.SetID(instance.ID, i+1),
				InstanceID: instance.ID,
				SetNumber:  i + 1,
				TargetReps: reps,
				CreatedAt:  now,
			}
			m.applyTarget(&set, session.UserID, ex, protocol, i, weeklyIntensity)
			instance.SetIDs = append(instance.SetIDs, set.ID)
			sets = append(sets, set)
		}
		instances = append(instances, instance)
	}
	return instances, sets, nil
}

// applyTarget populates exactly one of weight, RPE or duration.
func (m *Materializer) applyTarget(set *models.ExerciseSet, userID string, ex models.Exercise, protocol models.ProtocolConfig, setIndex int, weeklyIntensity float64) {
	switch {
	case ex.Classification == models.ClassCardio:
		set.TargetSeconds = protocol.CardioSeconds
	case ex.Equipment.UsesRPE():
		rpe := protocol.RPEAt(setIndex, defaultBodyweightRPE)
		set.TargetRPE = &rpe
	case ex.Classification == models.ClassCompound:
		oneRM, ok := m.estimator.OneRepMax(userID, ex)
		if !ok {
			return
		}
		weight := roundTo(oneRM*(weeklyIntensity+protocol.OffsetAt(setIndex)), workingIncrement)
		if weight > 0 {
			set.TargetWeight = &weight
		}
	default: // isolation, warmup, cooldown
		if m.calc == nil {
			return
		}
		rpe := protocol.RPEAt(setIndex, defaultIsolationRPE)
		weight, ok := m.calc.Calculate(userID, ex, ex.Classification, weeklyIntensity, protocol.OffsetAt(setIndex), rpe)
		if !ok {
			return
		}
		weight = roundTo(weight, workingIncrement)
		if weight > 0 {
			set.TargetWeight = &weight
		}
	}
}

// supersetLabels maps each grouped session position to its display
// label ("1a", "1b", "2a", ...).
func supersetLabels(groups []models.SupersetGroup) map[int]string {
	labels := map[int]string{}
	for _, g := range groups {
		for i, pos := range g.Positions {
			labels[pos] = models.SupersetLabel(g.Number, i)
		}
	}
	return labels
}

func roundTo(x, increment float64) float64 {
	return math.Round(x/increment) * increment
}
