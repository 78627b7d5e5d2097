// Package catalog provides read-only access to the exercise and
// protocol reference data. Catalogs iterate in sorted-ID order so
// that every ranking pass downstream is reproducible.
package catalog

import (
	"sort"

	"github.com/liftlab/liftplan/internal/models"
)

// ExerciseCatalog is the read-only exercise reference dataset.
type ExerciseCatalog interface {
	Exercise(id string) (models.Exercise, bool)
	Exercises() []models.Exercise
}

// ProtocolCatalog is the read-only protocol reference dataset.
type ProtocolCatalog interface {
	Protocol(id string) (models.ProtocolConfig, bool)
	Protocols() []models.ProtocolConfig
}

// Exercises is an in-memory ExerciseCatalog.
type Exercises struct {
	byID  map[string]models.Exercise
	order []models.Exercise
}

// NewExercises builds a catalog from entries, deduplicating by ID
// (last wins) and fixing iteration order by sorted ID.
func NewExercises(entries []models.Exercise) *Exercises {
	byID := make(map[string]models.Exercise, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	order := make([]models.Exercise, 0, len(byID))
	for _, e := range byID {
		order = append(order, e)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })
	return &Exercises{byID: byID, order: order}
}

// Exercise looks up one entry by ID.
func (c *Exercises) Exercise(id string) (models.Exercise, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Exercises returns all entries in sorted-ID order. The caller must
// not mutate the returned slice.
func (c *Exercises) Exercises() []models.Exercise {
	return c.order
}

// Protocols is an in-memory ProtocolCatalog.
type Protocols struct {
	byID  map[string]models.ProtocolConfig
	order []models.ProtocolConfig
}

// NewProtocols builds a catalog from entries with sorted-ID iteration
// order.
func NewProtocols(entries []models.ProtocolConfig) *Protocols {
	byID := make(map[string]models.ProtocolConfig, len(entries))
	for _, p := range entries {
		byID[p.ID] = p
	}
	order := make([]models.ProtocolConfig, 0, len(byID))
	for _, p := range byID {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].ID < order[j].ID })
	return &Protocols{byID: byID, order: order}
}

// Protocol looks up one entry by ID.
func (c *Protocols) Protocol(id string) (models.ProtocolConfig, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Protocols returns all entries in sorted-ID order.
func (c *Protocols) Protocols() []models.ProtocolConfig {
	return c.order
}
