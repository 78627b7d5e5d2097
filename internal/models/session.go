package models

import (
	"fmt"
	"time"
)

// ExecutionStatus tracks where an instance (or set) is in its lifecycle.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusActive    ExecutionStatus = "active"
	StatusCompleted ExecutionStatus = "completed"
	StatusSkipped   ExecutionStatus = "skipped"
)

// ProgressionStyle selects how intensity moves across program weeks.
type ProgressionStyle string

const (
	ProgressionLinear     ProgressionStyle = "linear"
	ProgressionUndulating ProgressionStyle = "undulating"
	ProgressionStatic     ProgressionStyle = "static"
)

// ProgressionConfig is a program's intensity schedule input.
type ProgressionConfig struct {
	Style          ProgressionStyle `yaml:"style" json:"style"`
	StartIntensity float64          `yaml:"start_intensity" json:"startIntensity"`
	EndIntensity   float64          `yaml:"end_intensity" json:"endIntensity"`
	Weeks          int              `yaml:"weeks" json:"weeks"`
}

// WorkoutSession is one scheduled training session. ExerciseIDs and
// InstanceIDs are parallel once the session has been materialized.
type WorkoutSession struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ProgramID   string          `json:"programId"`
	Split       Split           `json:"split"`
	Date        time.Time       `json:"date"`
	ExerciseIDs []string        `json:"exerciseIds"`
	InstanceIDs []string        `json:"instanceIds"`
	Groups      []SupersetGroup `json:"groups,omitempty"`
	SelectedAt  time.Time       `json:"selectedAt"`
}

// Selected reports whether exercises have already been chosen for the
// session on the given calendar day. Selection is reused within a day
// and recomputed across days; this is a staleness check, not a cache
// correctness guarantee.
func (s WorkoutSession) Selected(today time.Time) bool {
	if len(s.ExerciseIDs) == 0 || s.SelectedAt.IsZero() {
		return false
	}
	y1, m1, d1 := s.SelectedAt.Date()
	y2, m2, d2 := today.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SupersetGroup pairs session positions (indices into ExerciseIDs,
// not exercise IDs) for back-to-back execution. RestSec is parallel
// to Positions; the last entry is the rest after a full rotation, the
// others are the rest between members.
type SupersetGroup struct {
	ID        string `json:"id"`
	Number    int    `json:"number"` // 1-based
	Positions []int  `json:"positions"`
	RestSec   []int  `json:"restSec"`
}

// ExerciseInstance binds an exercise to a session slot with a
// resolved protocol and generated sets. Substitution replaces the
// whole instance rather than patching it, since the incoming
// protocol may prescribe a different set count.
type ExerciseInstance struct {
	ID            string          `json:"id"`
	ExerciseID    string          `json:"exerciseId"`
	SessionID     string          `json:"sessionId"`
	ProtocolID    string          `json:"protocolId"`
	SetIDs        []string        `json:"setIds"`
	Status        ExecutionStatus `json:"status"`
	SupersetLabel string          `json:"supersetLabel,omitempty"` // e.g. "1a"
}

// ExerciseSet is one concrete set target. Exactly one of
// TargetWeight, TargetRPE and TargetSeconds is meaningfully
// populated, chosen by the owning exercise's equipment class and
// classification.
type ExerciseSet struct {
	ID             string     `json:"id"`
	InstanceID     string     `json:"instanceId"`
	SetNumber      int        `json:"setNumber"` // 1-based
	TargetWeight   *float64   `json:"targetWeight,omitempty"`
	ActualWeight   *float64   `json:"actualWeight,omitempty"`
	TargetReps     int        `json:"targetReps"`
	ActualReps     *int       `json:"actualReps,omitempty"`
	TargetRPE      *float64   `json:"targetRpe,omitempty"`
	TargetSeconds  int        `json:"targetSeconds,omitempty"`
	ActualSeconds  *int       `json:"actualSeconds,omitempty"`
	TargetDistance *float64   `json:"targetDistance,omitempty"`
	ActualDistance *float64   `json:"actualDistance,omitempty"`
	Completed      bool       `json:"completed"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// InstanceID derives the deterministic instance identifier for a
// session position.
func InstanceID(sessionID string, position int) string {
	return fmt.Sprintf("%s_ex%d", sessionID, position)
}

// SetID derives the deterministic set identifier for a 1-based set
// number within an instance.
func SetID(instanceID string, setNumber int) string {
	return fmt.Sprintf("%s_s%d", instanceID, setNumber)
}

// SupersetLabel formats the display label for a position within a
// group, e.g. group 1 member 0 → "1a".
func SupersetLabel(groupNumber, memberIndex int) string {
	return fmt.Sprintf("%d%c", groupNumber, 'a'+rune(memberIndex))
}
