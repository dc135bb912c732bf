package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mixeduse_planner/pkg/core/entity"
	coreScenario "mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/store"
)

var scenarioStore *store.ScenarioStore

// InitHandler wires the persistence layer into the scenario endpoints.
func InitHandler(s *store.ScenarioStore) {
	scenarioStore = s
}

type SaveRequest struct {
	Scenario *coreScenario.Scenario `json:"scenario"`
}

type DeleteRequest struct {
	Name string `json:"name"`
}

type ListResponse struct {
	Scenarios []string `json:"scenarios"`
}

func cors(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleList serves GET /api/scenarios
func HandleList(w http.ResponseWriter, r *http.Request) {
	cors(w, "GET, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	names, err := scenarioStore.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List failed: %v", err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(ListResponse{Scenarios: names})
}

// HandleLoad serves GET /api/scenarios/load?name=...
func HandleLoad(w http.ResponseWriter, r *http.Request) {
	cors(w, "GET, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Missing 'name' query parameter", http.StatusBadRequest)
		return
	}

	s, err := scenarioStore.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Scenario not found: %s", name), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load failed: %v", err), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(s)
}

// HandleSave serves POST /api/scenarios/save
func HandleSave(w http.ResponseWriter, r *http.Request) {
	cors(w, "POST, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Scenario == nil {
		http.Error(w, "Missing 'scenario' in request body", http.StatusBadRequest)
		return
	}
	req.Scenario.Normalize()

	if err := scenarioStore.Save(r.Context(), req.Scenario); err != nil {
		var cfgErr *coreScenario.ConfigurationError
		var valErr *entity.ValidationError
		if errors.As(err, &cfgErr) || errors.As(err, &valErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Save failed: %v", err), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[SCENARIO] Saved: %s\n", req.Scenario.Name)
	fmt.Fprintf(w, "Success: Saved %s", req.Scenario.Name)
}

// HandleDelete serves POST /api/scenarios/delete
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	cors(w, "POST, OPTIONS")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := scenarioStore.Delete(r.Context(), req.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Scenario not found: %s", req.Name), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Delete failed: %v", err), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[SCENARIO] Deleted: %s\n", req.Name)
	fmt.Fprintf(w, "Success: Deleted %s", req.Name)
}
