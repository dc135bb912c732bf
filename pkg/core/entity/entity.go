// Package entity defines the projectable units of a scenario: a Store
// operation or a Property. The two kinds share the same projection algebra
// and differ only in parameter semantics, so they are modeled as a tagged
// variant rather than separate types.
package entity

import (
	"fmt"
)

// Kind discriminates the entity variant.
type Kind string

const (
	KindStore    Kind = "Store"
	KindProperty Kind = "Property"
)

// Sane bounds for fractional rates. Negative growth is permitted (decline),
// but anything below -100%/yr or above 1000%/yr is treated as input garbage.
const (
	MinRate = -1.0
	MaxRate = 10.0
)

// Override replaces the compounded value for a single year. Compounding
// resumes from the overridden value in the following year. Nil fields leave
// the compounded value untouched.
type Override struct {
	Revenue *float64 `json:"revenue,omitempty"`
	Cost    *float64 `json:"cost,omitempty"`
}

// Entity is a pure data holder with validated construction. For a Store,
// InitialRevenue is sales and InitialCost is operating outflow; for a
// Property, InitialRevenue is rent collected and InitialCost is carrying cost.
type Entity struct {
	ID             string           `json:"id"`
	Kind           Kind             `json:"type"`
	InitialRevenue float64          `json:"initial_revenue"`
	InitialCost    float64          `json:"initial_cost"`
	GrowthRate     float64          `json:"growth_rate"` // Fractional: 0.03 == 3%/yr
	Overrides      map[int]Override `json:"overrides,omitempty"`
}

// ValidationError reports a malformed entity or projection input. It is
// surfaced immediately to the caller and never recovered automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("VALIDATION_ERROR: field '%s': %s", e.Field, e.Reason)
}

// New constructs a validated entity. Partial or invalid state is never
// returned to the caller.
func New(id string, kind Kind, initialRevenue, initialCost, growthRate float64) (*Entity, error) {
	e := &Entity{
		ID:             id,
		Kind:           kind,
		InitialRevenue: initialRevenue,
		InitialCost:    initialCost,
		GrowthRate:     growthRate,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the construction invariants. The zero value of Entity is
// not valid (empty ID, unknown kind).
func (e *Entity) Validate() error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Reason: "identifier must not be empty"}
	}
	switch e.Kind {
	case KindStore, KindProperty:
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown entity kind '%s'", e.Kind)}
	}
	if e.InitialRevenue < 0 {
		return &ValidationError{Field: "initial_revenue", Reason: "must be non-negative"}
	}
	if e.InitialCost < 0 {
		return &ValidationError{Field: "initial_cost", Reason: "must be non-negative"}
	}
	if e.GrowthRate < MinRate || e.GrowthRate > MaxRate {
		return &ValidationError{
			Field:  "growth_rate",
			Reason: fmt.Sprintf("%.4f outside sane range [%.0f, %.0f]", e.GrowthRate, MinRate, MaxRate),
		}
	}
	for year, ov := range e.Overrides {
		if year < 0 {
			return &ValidationError{Field: "overrides", Reason: fmt.Sprintf("year index %d is negative", year)}
		}
		if ov.Revenue != nil && *ov.Revenue < 0 {
			return &ValidationError{Field: "overrides", Reason: fmt.Sprintf("revenue override for year %d is negative", year)}
		}
		if ov.Cost != nil && *ov.Cost < 0 {
			return &ValidationError{Field: "overrides", Reason: fmt.Sprintf("cost override for year %d is negative", year)}
		}
	}
	return nil
}

// WithOverride returns a copy of the entity carrying the additional override.
// The receiver is not mutated, so a half-applied edit is never observable.
func (e *Entity) WithOverride(year int, ov Override) (*Entity, error) {
	clone := *e
	clone.Overrides = make(map[int]Override, len(e.Overrides)+1)
	for y, o := range e.Overrides {
		clone.Overrides[y] = o
	}
	clone.Overrides[year] = ov
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	return &clone, nil
}
