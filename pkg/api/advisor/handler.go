package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mixeduse_planner/pkg/core/advisor"
	"mixeduse_planner/pkg/core/agent"
	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/store"
)

var (
	consultant    *advisor.Consultant
	scenarioStore *store.ScenarioStore
)

// InitHandler wires the agent manager and store into the advisor endpoints.
func InitHandler(mgr *agent.Manager, s *store.ScenarioStore) {
	consultant = advisor.NewConsultant(mgr)
	scenarioStore = s
}

type AskRequest struct {
	Scenario   *scenario.Scenario `json:"scenario"`
	Question   string             `json:"question"`
	Structured bool               `json:"structured,omitempty"`
}

type AskResponse struct {
	Summary    *advisor.Summary `json:"summary"`
	Answer     string           `json:"answer,omitempty"`
	Structured *advisor.Advice  `json:"structured,omitempty"`
	// Warning carries a consultant failure. The projection stays usable.
	Warning string `json:"warning,omitempty"`
}

// HandleAsk serves POST /api/advisor/ask
func HandleAsk(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Scenario == nil {
		http.Error(w, "Missing 'scenario' in request body", http.StatusBadRequest)
		return
	}
	req.Scenario.Normalize()

	result, err := projection.Project(req.Scenario)
	if err != nil {
		http.Error(w, fmt.Sprintf("Projection failed: %v", err), http.StatusBadRequest)
		return
	}
	summary := advisor.BuildSummary(req.Scenario, result)

	resp := AskResponse{Summary: summary}
	if req.Structured {
		advice, err := consultant.AskStructured(r.Context(), summary, req.Question)
		if err != nil {
			respondWithWarning(w, resp, err)
			return
		}
		resp.Structured = advice
	} else {
		answer, err := consultant.Ask(r.Context(), summary, req.Question)
		if err != nil {
			respondWithWarning(w, resp, err)
			return
		}
		resp.Answer = answer
	}

	json.NewEncoder(w).Encode(resp)
}

// HandleStream serves GET /api/advisor/stream?name=...&q=...
// The scenario is loaded from the store and the answer streams as SSE.
func HandleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

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

	result, err := projection.Project(s)
	if err != nil {
		http.Error(w, fmt.Sprintf("Projection failed: %v", err), http.StatusBadRequest)
		return
	}
	summary := advisor.BuildSummary(s, result)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	streamer, err := advisor.NewStreamConsultant(r.Context())
	if err != nil {
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
		flusher.Flush()
		return
	}
	defer streamer.Close()

	fmt.Printf("[ADVISOR] Streaming review for scenario: %s\n", name)

	err = streamer.Stream(r.Context(), summary, r.URL.Query().Get("q"), func(chunk string) error {
		payload, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
		flusher.Flush()
		return
	}

	fmt.Fprintf(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

// Consultant failures are non-fatal: the response stays 200 and keeps the
// projection summary, with the failure downgraded to a warning field.
func respondWithWarning(w http.ResponseWriter, resp AskResponse, err error) {
	var svcErr *advisor.ServiceError
	if errors.As(err, &svcErr) {
		fmt.Printf("[ADVISOR] Service error: %v\n", err)
		resp.Warning = err.Error()
		json.NewEncoder(w).Encode(resp)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
