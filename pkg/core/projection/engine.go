// Package projection turns a scenario into year-by-year cash flow tables.
// The engine is a pure function of its input: no stored state, fully
// synchronous, same scenario in, same rows out.
package projection

import (
	"mixeduse_planner/pkg/core/entity"
	"mixeduse_planner/pkg/core/scenario"
)

// Project computes one Row per year per entity over the scenario horizon,
// plus the portfolio aggregate. Entities do not interact; each compounds
// independently off the shared inflation assumption.
//
// Per entity: year 0 carries the initial revenue and cost. Each later year
// compounds revenue by the entity growth rate and cost by the inflation
// rate, unless an override replaces the value for that year, in which case
// compounding resumes from the overridden value.
func Project(s *scenario.Scenario) (*Result, error) {
	if s == nil {
		return nil, &entity.ValidationError{Field: "scenario", Reason: "nil scenario"}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	horizon := s.Assumptions.Horizon
	if horizon <= 0 {
		return nil, &entity.ValidationError{Field: "horizon", Reason: "must be a positive number of years"}
	}

	result := &Result{
		StartYear: s.Assumptions.StartYear,
		Horizon:   horizon,
		Entities:  make([]EntityProjection, 0, len(s.Entities)),
		Portfolio: make([]Row, horizon),
	}
	for y := range result.Portfolio {
		result.Portfolio[y].Year = y
	}

	for _, e := range s.Entities {
		rows := projectEntity(e, s.Assumptions.InflationRate, horizon)
		result.Entities = append(result.Entities, EntityProjection{
			EntityID: e.ID,
			Kind:     string(e.Kind),
			Rows:     rows,
		})
		for y, row := range rows {
			result.Portfolio[y].Revenue += row.Revenue
			result.Portfolio[y].Cost += row.Cost
			result.Portfolio[y].Net += row.Net
		}
	}

	// Cumulative on the aggregate articulates from the summed nets.
	cum := 0.0
	for y := range result.Portfolio {
		cum += result.Portfolio[y].Net
		result.Portfolio[y].Cumulative = cum
	}

	return result, nil
}

func projectEntity(e *entity.Entity, inflationRate float64, horizon int) []Row {
	rows := make([]Row, horizon)

	revenue := e.InitialRevenue
	cost := e.InitialCost
	cumulative := 0.0

	for y := 0; y < horizon; y++ {
		if y > 0 {
			revenue *= 1 + e.GrowthRate
			cost *= 1 + inflationRate
		}
		// An override replaces the compounded value for this year only;
		// next year's compounding starts from the overridden value.
		if ov, ok := e.Overrides[y]; ok {
			if ov.Revenue != nil {
				revenue = *ov.Revenue
			}
			if ov.Cost != nil {
				cost = *ov.Cost
			}
		}

		net := revenue - cost
		cumulative += net
		rows[y] = Row{
			Year:       y,
			Revenue:    revenue,
			Cost:       cost,
			Net:        net,
			Cumulative: cumulative,
		}
	}
	return rows
}
