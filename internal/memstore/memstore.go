// Package memstore holds the application's shared in-memory state:
// sessions, exercise instances, sets, user libraries and 1RM
// targets. Writes are last-write-wins per key. Callers are expected
// to serialize mutating operations per session ID; concurrent
// mutation of different sessions is safe.
package memstore

import (
	"sync"

	"github.com/liftlab/liftplan/internal/models"
)

type targetKey struct {
	userID     string
	exerciseID string
}

// Store is the in-memory keyed store.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]models.WorkoutSession
	instances map[string]models.ExerciseInstance
	sets      map[string]models.ExerciseSet
	libraries map[string]models.UserLibrary
	targets   map[targetKey]models.StrengthTarget
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sessions:  map[string]models.WorkoutSession{},
		instances: map[string]models.ExerciseInstance{},
		sets:      map[string]models.ExerciseSet{},
		libraries: map[string]models.UserLibrary{},
		targets:   map[targetKey]models.StrengthTarget{},
	}
}

// Session returns a copy of the session, detached from store state.
func (s *Store) Session(id string) (models.WorkoutSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.WorkoutSession{}, false
	}
	return copySession(sess), true
}

// PutSession stores a session, detached from the caller's copy.
func (s *Store) PutSession(sess models.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = copySession(sess)
}

// DeleteSession removes a session. Instances and sets are not
// cascaded; callers delete those explicitly.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Instance returns an instance by ID.
func (s *Store) Instance(id string) (models.ExerciseInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	if !ok {
		return models.ExerciseInstance{}, false
	}
	inst.SetIDs = append([]string(nil), inst.SetIDs...)
	return inst, true
}

// PutInstance stores an instance.
func (s *Store) PutInstance(inst models.ExerciseInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.SetIDs = append([]string(nil), inst.SetIDs...)
	s.instances[inst.ID] = inst
}

// DeleteInstance removes an instance.
func (s *Store) DeleteInstance(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, id)
}

// Set returns a set by ID.
func (s *Store) Set(id string) (models.ExerciseSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[id]
	return set, ok
}

// PutSet stores a set.
func (s *Store) PutSet(set models.ExerciseSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.ID] = set
}

// DeleteSet removes a set.
func (s *Store) DeleteSet(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
}

// InstancesFor resolves a session's instance IDs in session order,
// skipping any that are missing.
func (s *Store) InstancesFor(sess models.WorkoutSession) []models.ExerciseInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExerciseInstance, 0, len(sess.InstanceIDs))
	for _, id := range sess.InstanceIDs {
		if inst, ok := s.instances[id]; ok {
			inst.SetIDs = append([]string(nil), inst.SetIDs...)
			out = append(out, inst)
		}
	}
	return out
}

// SetsFor resolves an instance's set IDs in order.
func (s *Store) SetsFor(inst models.ExerciseInstance) []models.ExerciseSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ExerciseSet, 0, len(inst.SetIDs))
	for _, id := range inst.SetIDs {
		if set, ok := s.sets[id]; ok {
			out = append(out, set)
		}
	}
	return out
}

// Library returns the user's curated exercise library, if any.
func (s *Store) Library(userID string) (models.UserLibrary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lib, ok := s.libraries[userID]
	if !ok {
		return models.UserLibrary{}, false
	}
	ids := make(map[string]bool, len(lib.ExerciseIDs))
	for id, v := range lib.ExerciseIDs {
		ids[id] = v
	}
	lib.ExerciseIDs = ids
	return lib, true
}

// PutLibrary stores a user library.
func (s *Store) PutLibrary(lib models.UserLibrary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]bool, len(lib.ExerciseIDs))
	for id, v := range lib.ExerciseIDs {
		ids[id] = v
	}
	lib.ExerciseIDs = ids
	s.libraries[lib.UserID] = lib
}

// Target returns a user's recorded 1RM target for an exercise.
func (s *Store) Target(userID, exerciseID string) (models.StrengthTarget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[targetKey{userID, exerciseID}]
	return t, ok
}

// PutTarget stores a 1RM target.
func (s *Store) PutTarget(t models.StrengthTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[targetKey{t.UserID, t.ExerciseID}] = t
}

func copySession(sess models.WorkoutSession) models.WorkoutSession {
	sess.ExerciseIDs = append([]string(nil), sess.ExerciseIDs...)
	sess.InstanceIDs = append([]string(nil), sess.InstanceIDs...)
	groups := make([]models.SupersetGroup, len(sess.Groups))
	for i, g := range sess.Groups {
		g.Positions = append([]int(nil), g.Positions...)
		g.RestSec = append([]int(nil), g.RestSec...)
		groups[i] = g
	}
	sess.Groups = groups
	return sess
}
