package scenario

import (
	"fmt"
)

// Frequency controls how often an event fires inside its window.
type Frequency string

const (
	FreqOneTime   Frequency = "One-time"
	FreqMonthly   Frequency = "Monthly"
	FreqQuarterly Frequency = "Quarterly"
	FreqAnnually  Frequency = "Annually"
)

// ImpactTarget names the projection line an event moves.
type ImpactTarget string

const (
	TargetRevenue ImpactTarget = "Revenue"
	TargetCOGS    ImpactTarget = "COGS"
	TargetLabor   ImpactTarget = "Labor"
	TargetOps     ImpactTarget = "Ops (Fixed)"
	TargetRent    ImpactTarget = "Rent"
	TargetCapex   ImpactTarget = "Capex"
)

// ValueType determines how an event's Value is interpreted when it fires.
type ValueType string

const (
	ValueFixed     ValueType = "Fixed Amount ($)"
	ValuePctOfRev  ValueType = "% of Revenue"
	ValuePctOfCOGS ValueType = "% of COGS"
	ValuePctOfOps  ValueType = "% of Ops"
)

// AffectedEntity routes Ops and Capex impacts to the store or the property.
type AffectedEntity string

const (
	AffectStore    AffectedEntity = "Store"
	AffectProperty AffectedEntity = "Property"
	AffectBoth     AffectedEntity = "Both"
)

// Event is a one-time or recurring adjustment to the monthly operating model:
// a renovation, a new product line, a rent concession. Percentage values are
// based on the month's pre-event base amounts, so application order between
// events does not matter.
type Event struct {
	Name        string         `json:"name"`
	StartMonth  int            `json:"start_month"` // 1-based month index
	EndMonth    int            `json:"end_month"`   // Inclusive; 0 means open-ended
	Frequency   Frequency      `json:"frequency"`
	Target      ImpactTarget   `json:"impact_target"`
	ValueType   ValueType      `json:"value_type"`
	Value       float64        `json:"value"` // Dollars, or percent (15 == 15%) for % types
	Affected    AffectedEntity `json:"affected_entity"`
	Description string         `json:"description,omitempty"`
	Active      bool           `json:"is_active"`
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if e.Name == "" {
		return &ConfigurationError{Field: "events", Reason: "event name must not be empty"}
	}
	if e.StartMonth < 1 {
		return &ConfigurationError{Field: "events", Reason: fmt.Sprintf("event '%s': start_month must be >= 1", e.Name)}
	}
	if e.EndMonth != 0 && e.EndMonth < e.StartMonth {
		return &ConfigurationError{Field: "events", Reason: fmt.Sprintf("event '%s': end_month before start_month", e.Name)}
	}
	switch e.Frequency {
	case FreqOneTime, FreqMonthly, FreqQuarterly, FreqAnnually:
	default:
		return &ConfigurationError{Field: "events", Reason: fmt.Sprintf("event '%s': unknown frequency '%s'", e.Name, e.Frequency)}
	}
	switch e.Target {
	case TargetRevenue, TargetCOGS, TargetLabor, TargetOps, TargetRent, TargetCapex:
	default:
		return &ConfigurationError{Field: "events", Reason: fmt.Sprintf("event '%s': unknown impact target '%s'", e.Name, e.Target)}
	}
	switch e.ValueType {
	case ValueFixed, ValuePctOfRev, ValuePctOfCOGS, ValuePctOfOps:
	default:
		return &ConfigurationError{Field: "events", Reason: fmt.Sprintf("event '%s': unknown value type '%s'", e.Name, e.ValueType)}
	}
	return nil
}

// AppliesAt reports whether the event fires in the given 1-based month.
func (e *Event) AppliesAt(month int) bool {
	if !e.Active {
		return false
	}
	end := e.EndMonth
	if end == 0 {
		end = 1<<31 - 1
	}
	if month < e.StartMonth || month > end {
		return false
	}
	delta := month - e.StartMonth
	switch e.Frequency {
	case FreqOneTime:
		return month == e.StartMonth
	case FreqMonthly:
		return true
	case FreqQuarterly:
		return delta%3 == 0
	case FreqAnnually:
		return delta%12 == 0
	}
	return false
}
