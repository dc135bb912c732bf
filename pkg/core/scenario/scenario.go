// Package scenario defines the named, persisted unit of planning work: a set
// of entities plus global assumptions, with optional business events and a
// detailed monthly operating model. A scenario is plain data; all computation
// lives in pkg/core/projection.
package scenario

import (
	"fmt"

	"github.com/google/uuid"

	"mixeduse_planner/pkg/core/entity"
)

// DefaultHorizon is the projection span in years when the user does not set one.
const DefaultHorizon = 10

// Assumptions are the global drivers shared by every entity in the scenario.
type Assumptions struct {
	InflationRate float64 `json:"inflation_rate"` // Fractional: 0.02 == 2%/yr
	Horizon       int     `json:"horizon"`        // Years projected
	StartYear     int     `json:"start_year"`     // Calendar year of year index 0
}

// Scenario is a named collection of entities plus assumptions. Events and
// Detail feed the monthly operating model and are optional.
type Scenario struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Assumptions *Assumptions     `json:"assumptions"`
	Entities    []*entity.Entity `json:"entities"`
	Events      []Event          `json:"events,omitempty"`
	Detail      *DetailInputs    `json:"detail,omitempty"`
}

// ConfigurationError reports a missing or insane global assumption.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("CONFIGURATION_ERROR: assumption '%s': %s", e.Field, e.Reason)
}

// New creates an empty scenario with defaults filled in.
func New(name string, startYear int) *Scenario {
	s := &Scenario{
		Name: name,
		Assumptions: &Assumptions{
			Horizon:   DefaultHorizon,
			StartYear: startYear,
		},
	}
	s.Normalize()
	return s
}

// Normalize fills defaults that JSON input may omit: a fresh UUID and the
// default horizon. It never overwrites values the user set.
func (s *Scenario) Normalize() {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Assumptions != nil && s.Assumptions.Horizon == 0 {
		s.Assumptions.Horizon = DefaultHorizon
	}
}

// Validate checks the scenario invariants: assumptions present and sane,
// every entity valid, identifiers unique.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &entity.ValidationError{Field: "name", Reason: "scenario name must not be empty"}
	}
	if s.Assumptions == nil {
		return &ConfigurationError{Field: "assumptions", Reason: "missing"}
	}
	if s.Assumptions.StartYear <= 0 {
		return &ConfigurationError{Field: "start_year", Reason: "missing or non-positive"}
	}
	if s.Assumptions.InflationRate < entity.MinRate || s.Assumptions.InflationRate > entity.MaxRate {
		return &ConfigurationError{
			Field:  "inflation_rate",
			Reason: fmt.Sprintf("%.4f outside sane range [%.0f, %.0f]", s.Assumptions.InflationRate, entity.MinRate, entity.MaxRate),
		}
	}
	seen := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if e == nil {
			return &entity.ValidationError{Field: "entities", Reason: "nil entity"}
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return &entity.ValidationError{Field: "entities", Reason: fmt.Sprintf("duplicate identifier '%s'", e.ID)}
		}
		seen[e.ID] = true
	}
	for i := range s.Events {
		if err := s.Events[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddEntity appends a validated entity, enforcing identifier uniqueness.
func (s *Scenario) AddEntity(e *entity.Entity) error {
	if e == nil {
		return &entity.ValidationError{Field: "entities", Reason: "nil entity"}
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if s.Entity(e.ID) != nil {
		return &entity.ValidationError{Field: "entities", Reason: fmt.Sprintf("duplicate identifier '%s'", e.ID)}
	}
	s.Entities = append(s.Entities, e)
	return nil
}

// RemoveEntity drops the entity with the given identifier. Returns false if
// no such entity exists.
func (s *Scenario) RemoveEntity(id string) bool {
	for i, e := range s.Entities {
		if e.ID == id {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return true
		}
	}
	return false
}

// Entity returns the entity with the given identifier, or nil.
func (s *Scenario) Entity(id string) *entity.Entity {
	for _, e := range s.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}
