// Package planner orchestrates session building: selection, protocol
// assignment, superset pairing and set materialization, in that
// order, over the shared in-memory store. Durable persistence is
// dispatched fire-and-forget after each in-memory mutation commits.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/engine/materialize"
	assignor "github.com/liftlab/liftplan/internal/engine/protocols"
	"github.com/liftlab/liftplan/internal/engine/selector"
	"github.com/liftlab/liftplan/internal/engine/superset"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/models"
)

// Saver persists a session to the durable store. May be nil, in
// which case sessions live only in memory.
type Saver interface {
	SaveSession(ctx context.Context, session models.WorkoutSession, instances []models.ExerciseInstance, sets []models.ExerciseSet) error
}

// Planner builds and refreshes workout sessions.
type Planner struct {
	exercises catalog.ExerciseCatalog
	protocols catalog.ProtocolCatalog
	selector  *selector.Selector
	assignor  *assignor.Assignor
	pairer    *superset.Pairer
	mat       *materialize.Materializer
	store     *memstore.Store
	saver     Saver
	log       *slog.Logger
}

// New wires a Planner. saver may be nil.
func New(exercises catalog.ExerciseCatalog, protocols catalog.ProtocolCatalog,
	sel *selector.Selector, asg *assignor.Assignor, pairer *superset.Pairer,
	mat *materialize.Materializer, store *memstore.Store, saver Saver, log *slog.Logger) *Planner {
	return &Planner{
		exercises: exercises, protocols: protocols,
		selector: sel, assignor: asg, pairer: pairer, mat: mat,
		store: store, saver: saver, log: log,
	}
}

// BuildRequest describes one session to build.
type BuildRequest struct {
	SessionID        string // empty: a new ID is generated
	UserID           string
	ProgramID        string
	Split            models.Split
	Date             time.Time
	DurationMinutes  int
	Goal             models.Goal
	Experience       models.ExperienceLevel
	Equipment        []models.Equipment
	Excluded         []string
	Emphasized       []models.MuscleGroup
	PreferBodyweight bool
	SupersetStyle    superset.Style
	ExplicitGroups   [][]int
	Progression      models.ProgressionConfig
	ProgramStart     time.Time
}

// SessionPlan is a fully materialized session with its instances and
// sets resolved, as returned to callers.
type SessionPlan struct {
	Session   models.WorkoutSession     `json:"session"`
	Instances []models.ExerciseInstance `json:"instances"`
	Sets      []models.ExerciseSet      `json:"sets"`
	Intensity float64                   `json:"intensity"`
}

// Compound time-allocation fraction by training goal.
func allocationFor(goal models.Goal) float64 {
	switch goal {
	case models.GoalStrength:
		return 0.7
	case models.GoalEndurance:
		return 0.5
	}
	return 0.6
}

// muscleTargetsFor maps a split to the primary muscles a session
// should hit.
func muscleTargetsFor(split models.Split) []models.MuscleGroup {
	switch split {
	case models.SplitPush:
		return []models.MuscleGroup{models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps}
	case models.SplitPull:
		return []models.MuscleGroup{models.MuscleBack, models.MuscleLats, models.MuscleBiceps}
	case models.SplitLegs, models.SplitLower:
		return []models.MuscleGroup{models.MuscleQuads, models.MuscleHamstrings, models.MuscleGlutes, models.MuscleCalves}
	case models.SplitUpper:
		return []models.MuscleGroup{models.MuscleChest, models.MuscleBack, models.MuscleShoulders, models.MuscleBiceps, models.MuscleTriceps}
	case models.SplitChest:
		return []models.MuscleGroup{models.MuscleChest}
	case models.SplitBack:
		return []models.MuscleGroup{models.MuscleBack, models.MuscleLats}
	case models.SplitShoulders:
		return []models.MuscleGroup{models.MuscleShoulders}
	case models.SplitArms:
		return []models.MuscleGroup{models.MuscleBiceps, models.MuscleTriceps, models.MuscleForearms}
	case models.SplitCore:
		return []models.MuscleGroup{models.MuscleCore}
	}
	return []models.MuscleGroup{models.MuscleChest, models.MuscleBack, models.MuscleQuads, models.MuscleHamstrings, models.MuscleShoulders}
}

// BuildSession runs the full pipeline for one session and commits
// the result to the in-memory store. Persistence is dispatched
// asynchronously; its failure never surfaces here.
func (p *Planner) BuildSession(ctx context.Context, req BuildRequest, now time.Time) (*SessionPlan, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	intensity := p.weeklyIntensity(req, now)
	criteria, err := p.criteriaFor(req, intensity)
	if err != nil {
		return nil, err
	}

	exerciseIDs, err := p.selector.Select(criteria)
	if err != nil {
		return nil, err
	}

	exercises, err := p.resolve(exerciseIDs)
	if err != nil {
		return nil, err
	}

	groups := p.pairer.BuildGroups(exercises, req.SupersetStyle, req.ExplicitGroups, req.Experience)
	if len(groups) > 0 {
		exerciseIDs, groups = superset.Reorder(exerciseIDs, groups)
		if exercises, err = p.resolve(exerciseIDs); err != nil {
			return nil, err
		}
	}

	var lib models.UserLibrary
	if l, ok := p.store.Library(req.UserID); ok {
		lib = l
	}
	assigned := p.assignor.Assign(exercises, intensity, req.Goal, lib)

	session := models.WorkoutSession{
		ID:          sessionID,
		UserID:      req.UserID,
		ProgramID:   req.ProgramID,
		Split:       req.Split,
		Date:        req.Date,
		ExerciseIDs: exerciseIDs,
		Groups:      groups,
		SelectedAt:  now,
	}

	instances, sets, err := p.mat.Materialize(session, exercises, assigned, intensity, now)
	if err != nil {
		return nil, fmt.Errorf("materializing session %s: %w", sessionID, err)
	}
	for _, inst := range instances {
		session.InstanceIDs = append(session.InstanceIDs, inst.ID)
	}

	p.store.PutSession(session)
	for _, inst := range instances {
		p.store.PutInstance(inst)
	}
	for _, set := range sets {
		p.store.PutSet(set)
	}

	p.dispatchSave(session, instances, sets)

	return &SessionPlan{Session: session, Instances: instances, Sets: sets, Intensity: intensity}, nil
}

// EnsureSession returns the stored session when its exercises were
// already selected today, rebuilding it otherwise. The staleness
// check is calendar-day granular.
func (p *Planner) EnsureSession(ctx context.Context, req BuildRequest, now time.Time) (*SessionPlan, error) {
	if req.SessionID != "" {
		if session, ok := p.store.Session(req.SessionID); ok && session.Selected(now) {
			return p.planFor(session, req, now), nil
		}
	}
	return p.BuildSession(ctx, req, now)
}

// Plan assembles a SessionPlan for an already stored session.
func (p *Planner) Plan(sessionID string, now time.Time) (*SessionPlan, bool) {
	session, ok := p.store.Session(sessionID)
	if !ok {
		return nil, false
	}
	return p.planFor(session, BuildRequest{}, now), true
}

func (p *Planner) planFor(session models.WorkoutSession, req BuildRequest, now time.Time) *SessionPlan {
	instances := p.store.InstancesFor(session)
	var sets []models.ExerciseSet
	for _, inst := range instances {
		sets = append(sets, p.store.SetsFor(inst)...)
	}
	return &SessionPlan{
		Session:   session,
		Instances: instances,
		Sets:      sets,
		Intensity: p.weeklyIntensity(req, now),
	}
}

// Resync pushes a session's current in-memory state to the durable
// store, fire-and-forget. Used after substitution.
func (p *Planner) Resync(sessionID string) {
	session, ok := p.store.Session(sessionID)
	if !ok {
		return
	}
	instances := p.store.InstancesFor(session)
	var sets []models.ExerciseSet
	for _, inst := range instances {
		sets = append(sets, p.store.SetsFor(inst)...)
	}
	p.dispatchSave(session, instances, sets)
}

func (p *Planner) weeklyIntensity(req BuildRequest, now time.Time) float64 {
	intensities := assignor.WeeklyIntensities(req.Progression)
	start := req.ProgramStart
	if start.IsZero() {
		start = now
	}
	week := assignor.WeekFor(req.Date, start, len(intensities))
	if req.Date.IsZero() {
		week = assignor.WeekFor(now, start, len(intensities))
	}
	return intensities[week-1]
}

func (p *Planner) criteriaFor(req BuildRequest, intensity float64) (models.SelectionCriteria, error) {
	compound, isolation := selector.PlanCounts(req.DurationMinutes, allocationFor(req.Goal), req.Split)

	allowed := map[models.Equipment]bool{}
	for _, e := range req.Equipment {
		allowed[e] = true
	}
	excluded := map[string]bool{}
	for _, id := range req.Excluded {
		excluded[id] = true
	}
	var library map[string]bool
	if lib, ok := p.store.Library(req.UserID); ok {
		library = lib.ExerciseIDs
	}

	return models.NewSelectionCriteria(models.SelectionCriteria{
		Split:             req.Split,
		MuscleTargets:     muscleTargetsFor(req.Split),
		CompoundCount:     compound,
		IsolationCount:    isolation,
		EmphasizedMuscles: req.Emphasized,
		AllowedEquipment:  allowed,
		ExcludedExercises: excluded,
		Goal:              req.Goal,
		Intensity:         intensity,
		Experience:        req.Experience,
		Library:           library,
		PreferBodyweight:  req.PreferBodyweight,
	})
}

func (p *Planner) resolve(ids []string) ([]models.Exercise, error) {
	out := make([]models.Exercise, 0, len(ids))
	for _, id := range ids {
		ex, ok := p.exercises.Exercise(id)
		if !ok {
			return nil, fmt.Errorf("selected exercise %q not in catalog", id)
		}
		out = append(out, ex)
	}
	return out, nil
}

// dispatchSave persists asynchronously. Best effort: a failure is
// logged and the in-memory state stays authoritative.
func (p *Planner) dispatchSave(session models.WorkoutSession, instances []models.ExerciseInstance, sets []models.ExerciseSet) {
	if p.saver == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.saver.SaveSession(ctx, session, instances, sets); err != nil {
			p.log.Warn("session sync failed", "session", session.ID, "error", err)
		}
	}()
}
