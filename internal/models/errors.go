package models

import "fmt"

// SelectionError means selection could not fill the session even
// after every fallback widening. It is fatal to session creation:
// callers must surface the message, never proceed with an empty
// session.
type SelectionError struct {
	Split   Split
	Message string
}

func (e *SelectionError) Error() string {
	if e.Split != "" {
		return fmt.Sprintf("exercise selection failed for %s: %s", e.Split, e.Message)
	}
	return "exercise selection failed: " + e.Message
}

// SubstitutionError means a single substitution request failed
// (instance, session, exercise or protocol not found). Existing state
// is untouched: the old instance is only deleted after every lookup
// succeeds.
type SubstitutionError struct {
	Kind    string // "session", "instance", "exercise", "protocol"
	ID      string
	Message string
}

func (e *SubstitutionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("substitution failed: %s", e.Message)
	}
	return fmt.Sprintf("substitution failed: %s %q not found", e.Kind, e.ID)
}
