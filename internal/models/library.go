package models

import "time"

// UserLibrary is the set of exercises a user has curated. Read-only
// input to selection and substitution.
type UserLibrary struct {
	UserID      string          `json:"userId"`
	ExerciseIDs map[string]bool `json:"exerciseIds"`
}

// Contains reports library membership; safe on a zero-value library.
func (l UserLibrary) Contains(exerciseID string) bool {
	return l.ExerciseIDs != nil && l.ExerciseIDs[exerciseID]
}

// StrengthTarget is a user's recorded one-rep-max target for one
// exercise.
type StrengthTarget struct {
	UserID     string    `json:"userId"`
	ExerciseID string    `json:"exerciseId"`
	Current    float64   `json:"current"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SubstitutionCandidate is one ranked replacement suggestion. Reasons
// are display strings, best reason first.
type SubstitutionCandidate struct {
	Exercise Exercise `json:"exercise"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons,omitempty"`
}

// PreferenceSignal is a lightweight learned signal recorded on
// substitution: +1 for the incoming exercise, -1 for the one swapped
// out, scoped to the session's split. Consumed by ranking layers
// elsewhere; this repository only records it.
type PreferenceSignal struct {
	UserID     string    `json:"userId"`
	ExerciseID string    `json:"exerciseId"`
	Split      Split     `json:"split"`
	Weight     int       `json:"weight"`
	RecordedAt time.Time `json:"recordedAt"`
}
