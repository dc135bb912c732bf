package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mixeduse_planner/pkg/core/entity"
	coreProjection "mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/store"
	"mixeduse_planner/pkg/core/validate"
	"mixeduse_planner/pkg/core/valuation"
)

var scenarioStore *store.ScenarioStore

// InitHandler wires the persistence layer so runs can reference a saved
// scenario by name.
func InitHandler(s *store.ScenarioStore) {
	scenarioStore = s
}

type RunRequest struct {
	// Scenario is given inline, or by the name of a saved scenario.
	Scenario *scenario.Scenario `json:"scenario,omitempty"`
	Name     string             `json:"name,omitempty"`
	// Months > 0 additionally runs the monthly cash-flow model.
	Months int `json:"months,omitempty"`
	// Valuation inputs are only used when the monthly model runs.
	InitialOutlay float64 `json:"initial_outlay,omitempty"`
	DiscountRate  float64 `json:"discount_rate,omitempty"`
	// Verify additionally cross-checks the output arithmetic and
	// returns the consistency report.
	Verify bool `json:"verify,omitempty"`
}

type RunResponse struct {
	Result    *coreProjection.Result      `json:"result"`
	Monthly   []coreProjection.MonthlyRow `json:"monthly,omitempty"`
	Valuation *valuation.DCFResult        `json:"valuation,omitempty"`
	Checks    *validate.ProjectionReport  `json:"checks,omitempty"`
}

// HandleRun serves POST /api/projection/run
func HandleRun(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Scenario == nil && req.Name != "" {
		loaded, err := scenarioStore.Load(r.Context(), req.Name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, fmt.Sprintf("Scenario not found: %s", req.Name), http.StatusNotFound)
				return
			}
			http.Error(w, fmt.Sprintf("Load failed: %v", err), http.StatusInternalServerError)
			return
		}
		req.Scenario = loaded
	}
	if req.Scenario == nil {
		http.Error(w, "Missing 'scenario' or 'name' in request body", http.StatusBadRequest)
		return
	}
	req.Scenario.Normalize()

	result, err := coreProjection.Project(req.Scenario)
	if err != nil {
		var cfgErr *scenario.ConfigurationError
		var valErr *entity.ValidationError
		if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Projection failed: %v", err), http.StatusInternalServerError)
		return
	}

	resp := RunResponse{Result: result}
	if req.Verify {
		resp.Checks = validate.CheckProjection(result, 1e-6)
	}

	if req.Months > 0 && req.Scenario.Detail != nil {
		monthly, err := coreProjection.ProjectMonthly(req.Scenario, req.Months)
		if err != nil {
			http.Error(w, fmt.Sprintf("Monthly projection failed: %v", err), http.StatusBadRequest)
			return
		}
		resp.Monthly = monthly

		dcf := valuation.Evaluate(monthly, valuation.DCFInput{
			InitialOutlay: req.InitialOutlay,
			AnnualRate:    req.DiscountRate,
		})
		resp.Valuation = &dcf
	}

	fmt.Printf("[PROJECTION] Ran %s: %d entities, horizon %d\n", req.Scenario.Name, len(req.Scenario.Entities), result.Horizon)
	json.NewEncoder(w).Encode(resp)
}
