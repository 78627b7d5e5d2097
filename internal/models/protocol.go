package models

// Protocol family tags. Strength-side families and the cardio family
// are mutually incompatible with the opposite exercise classification;
// warmup/cooldown exercises accept either.
const (
	FamilyStrength    = "strength"
	FamilyHypertrophy = "hypertrophy"
	FamilyEndurance   = "endurance"
	FamilyCardio      = "cardio"
)

// ProtocolConfig is a read-only set/rep/intensity prescription.
//
// Reps is authoritative for the set count. IntensityOffsets, RestSec
// and RPE are indexed in parallel with Reps and may be shorter;
// missing entries default per accessor.
type ProtocolConfig struct {
	ID               string    `yaml:"id" json:"id"`
	Name             string    `yaml:"name" json:"name"`
	Family           string    `yaml:"family,omitempty" json:"family,omitempty"`
	Reps             []int     `yaml:"reps" json:"reps"`
	IntensityOffsets []float64 `yaml:"intensity_offsets,omitempty" json:"intensityOffsets,omitempty"`
	RestSec          []int     `yaml:"rest_sec,omitempty" json:"restSec,omitempty"`
	Tempo            string    `yaml:"tempo,omitempty" json:"tempo,omitempty"`
	RPE              []float64 `yaml:"rpe,omitempty" json:"rpe,omitempty"`
	CardioSeconds    int       `yaml:"cardio_seconds,omitempty" json:"cardioSeconds,omitempty"`
}

// SetCount returns the number of sets the protocol prescribes.
func (p ProtocolConfig) SetCount() int { return len(p.Reps) }

// IsCardio reports whether the protocol belongs to the cardio family.
func (p ProtocolConfig) IsCardio() bool { return p.Family == FamilyCardio }

// OffsetAt returns the intensity offset for set i, defaulting to 0
// when the offsets array is shorter than the rep array.
func (p ProtocolConfig) OffsetAt(i int) float64 {
	if i < 0 || i >= len(p.IntensityOffsets) {
		return 0
	}
	return p.IntensityOffsets[i]
}

// RPEAt returns the target RPE for set i, or def when absent.
func (p ProtocolConfig) RPEAt(i int, def float64) float64 {
	if i < 0 || i >= len(p.RPE) {
		return def
	}
	return p.RPE[i]
}

// RestAt returns the rest after set i in seconds, defaulting to 90.
func (p ProtocolConfig) RestAt(i int) int {
	if i < 0 || i >= len(p.RestSec) {
		return 90
	}
	return p.RestSec[i]
}

// MeanReps is the average prescribed rep count across sets, 0 for an
// empty protocol.
func (p ProtocolConfig) MeanReps() float64 {
	if len(p.Reps) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reps {
		sum += r
	}
	return float64(sum) / float64(len(p.Reps))
}

// MeanRPE is the average prescribed RPE across the sets that carry
// one, 0 when the protocol prescribes no RPE at all.
func (p ProtocolConfig) MeanRPE() float64 {
	if len(p.RPE) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range p.RPE {
		sum += r
	}
	return sum / float64(len(p.RPE))
}
