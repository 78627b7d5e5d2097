// Package protocols attaches a training protocol to every selected
// exercise: a user-library matcher first when one is wired, then a
// data-driven catalog search over rep ranges and RPE bands, then a
// fixed default table. A mandatory compatibility pass keeps cardio
// protocols off strength exercises and vice versa.
package protocols

import (
	"log/slog"
	"math"
	"sort"

	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/models"
)

// Matcher is the optional user-library protocol matcher consulted
// before the built-in paths. A nil Matcher, or a false return, means
// "use the built-in path" and is never an error.
type Matcher interface {
	MatchProtocol(ex models.Exercise, intensity float64, goal models.Goal, lib models.UserLibrary) (string, bool)
}

// Assignor selects protocols for exercises.
type Assignor struct {
	protocols catalog.ProtocolCatalog
	matcher   Matcher
	log       *slog.Logger
}

// New creates an Assignor. matcher may be nil.
func New(protocols catalog.ProtocolCatalog, matcher Matcher, log *slog.Logger) *Assignor {
	return &Assignor{protocols: protocols, matcher: matcher, log: log}
}

// intensity bands
type band int

const (
	bandLow band = iota
	bandMedium
	bandHigh
)

func bandFor(intensity float64) band {
	switch {
	case intensity < 0.65:
		return bandLow
	case intensity < 0.80:
		return bandMedium
	}
	return bandHigh
}

// rpeRange returns the target RPE window for an intensity band.
func (b band) rpeRange() (lo, hi float64) {
	switch b {
	case bandLow:
		return 6.0, 7.5
	case bandMedium:
		return 7.0, 8.5
	}
	return 8.0, 10.0
}

// repRange returns the target mean-rep window for a classification at
// an intensity band. Compound ranges tighten as intensity rises.
func (b band) repRange(class models.Classification) (lo, hi float64) {
	if class == models.ClassCompound {
		switch b {
		case bandLow:
			return 5, 8
		case bandMedium:
			return 3, 6
		}
		return 1, 5
	}
	switch b {
	case bandLow:
		return 10, 15
	case bandMedium:
		return 8, 12
	}
	return 6, 10
}

// Fallback protocol IDs keyed by classification and band. These must
// exist in the shipped protocol catalog.
var defaultTable = map[models.Classification][3]string{
	models.ClassCompound:  {"cmp_volume_4x8", "cmp_strength_4x5", "cmp_peak_5x3"},
	models.ClassIsolation: {"iso_pump_3x15", "iso_build_4x10", "iso_hard_3x8"},
	models.ClassWarmup:    {"iso_pump_3x15", "iso_pump_3x15", "iso_pump_3x15"},
	models.ClassCooldown:  {"iso_pump_3x15", "iso_pump_3x15", "iso_pump_3x15"},
	models.ClassCardio:    {"cardio_steady_30", "cardio_steady_30", "cardio_intervals_8x1"},
}

// DefaultProtocol returns the fixed fallback protocol ID for a
// classification at the given intensity.
func DefaultProtocol(class models.Classification, intensity float64) string {
	row, ok := defaultTable[class]
	if !ok {
		row = defaultTable[models.ClassIsolation]
	}
	return row[bandFor(intensity)]
}

// Assign maps each exercise position to a protocol ID. The result
// always covers every position and has already passed the
// compatibility validation.
func (a *Assignor) Assign(exercises []models.Exercise, intensity float64, goal models.Goal, lib models.UserLibrary) map[int]string {
	out := make(map[int]string, len(exercises))
	for pos, ex := range exercises {
		out[pos] = a.assignOne(ex, intensity, goal, lib)
	}
	a.validateCompatibility(exercises, intensity, out)
	return out
}

func (a *Assignor) assignOne(ex models.Exercise, intensity float64, goal models.Goal, lib models.UserLibrary) string {
	if a.matcher != nil {
		if id, ok := a.matcher.MatchProtocol(ex, intensity, goal, lib); ok {
			if _, known := a.protocols.Protocol(id); known {
				return id
			}
			a.log.Warn("library matcher returned unknown protocol", "protocol", id, "exercise", ex.ID)
		}
	}
	if ex.Classification == models.ClassCardio {
		return DefaultProtocol(ex.Classification, intensity)
	}
	if id, ok := a.searchCatalog(ex.Classification, intensity); ok {
		return id
	}
	return DefaultProtocol(ex.Classification, intensity)
}

// searchCatalog filters protocols whose mean reps and mean RPE fall
// in the band windows and picks the one whose mean RPE sits closest
// to intensity×10. Ties break on protocol ID.
func (a *Assignor) searchCatalog(class models.Classification, intensity float64) (string, bool) {
	b := bandFor(intensity)
	rpeLo, rpeHi := b.rpeRange()
	repLo, repHi := b.repRange(class)
	targetRPE := intensity * 10

	type scored struct {
		id   string
		dist float64
	}
	var candidates []scored
	for _, p := range a.protocols.Protocols() {
		if p.IsCardio() {
			continue
		}
		meanReps, meanRPE := p.MeanReps(), p.MeanRPE()
		if meanRPE == 0 {
			continue
		}
		if meanReps < repLo || meanReps > repHi || meanRPE < rpeLo || meanRPE > rpeHi {
			continue
		}
		candidates = append(candidates, scored{id: p.ID, dist: math.Abs(meanRPE - targetRPE)})
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].id < candidates[j].id
	})
	return candidates[0].id, true
}

// validateCompatibility rewrites any cardio/strength family mismatch
// with a compatible default and logs the correction. Warmup and
// cooldown exercises accept either family.
func (a *Assignor) validateCompatibility(exercises []models.Exercise, intensity float64, assignments map[int]string) {
	for pos, ex := range exercises {
		if ex.Classification == models.ClassWarmup || ex.Classification == models.ClassCooldown {
			continue
		}
		p, ok := a.protocols.Protocol(assignments[pos])
		if !ok {
			assignments[pos] = DefaultProtocol(ex.Classification, intensity)
			continue
		}
		exCardio := ex.Classification == models.ClassCardio
		if p.IsCardio() != exCardio {
			replacement := DefaultProtocol(ex.Classification, intensity)
			a.log.Warn("incompatible protocol replaced",
				"exercise", ex.ID, "protocol", p.ID, "replacement", replacement)
			assignments[pos] = replacement
		}
	}
}
