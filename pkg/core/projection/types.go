package projection

// Row is one projected year for a single entity or for the portfolio:
// derived, immutable once computed, recomputed on demand from the scenario.
type Row struct {
	Year       int     `json:"year"` // Index from 0
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

// EntityProjection is the full horizon for one entity.
type EntityProjection struct {
	EntityID string `json:"entity_id"`
	Kind     string `json:"kind"`
	Rows     []Row  `json:"rows"`
}

// Result is the output of a projection run: one series per entity plus the
// portfolio series (element-wise sum across entities for each year).
type Result struct {
	StartYear int                `json:"start_year"`
	Horizon   int                `json:"horizon"`
	Entities  []EntityProjection `json:"entities"`
	Portfolio []Row              `json:"portfolio"`
}
