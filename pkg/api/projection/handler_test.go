package projection

import (
	"context"
	"encoding/json"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"mixeduse_planner/pkg/core/entity"
	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/store"
)

func runRequest(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/projection/run", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleRun(w, req)
	return w
}

func TestHandleRun(t *testing.T) {
	s := scenario.New("api-test", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 3

	store, err := entity.New("store-1", entity.KindStore, 1000, 600, 0.05)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	if err := s.AddEntity(store); err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(RunRequest{Scenario: s})
	if err != nil {
		t.Fatal(err)
	}

	w := runRequest(t, string(body))
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("missing result")
	}
	if len(resp.Result.Portfolio) != 3 {
		t.Errorf("portfolio rows = %d, want 3", len(resp.Result.Portfolio))
	}
	// Worked example: year 2 net is 1102.50 - 624.24 = 478.26
	if got := resp.Result.Portfolio[2].Net; math.Abs(got-478.26) > 1e-6 {
		t.Errorf("year 2 net = %v, want 478.26", got)
	}
	if resp.Monthly != nil {
		t.Error("monthly model should not run without months/detail")
	}
}

func TestHandleRunByName(t *testing.T) {
	st := store.NewScenarioStore(nil, t.TempDir())
	InitHandler(st)

	s := scenario.New("saved-run", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 3
	e, err := entity.New("store-1", entity.KindStore, 1000, 600, 0.05)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	if err := s.AddEntity(e); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(context.Background(), s); err != nil {
		t.Fatalf("store.Save: %v", err)
	}

	w := runRequest(t, `{"name":"saved-run"}`)
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result == nil || len(resp.Result.Portfolio) != 3 {
		t.Errorf("named run should project the saved scenario, got %+v", resp.Result)
	}

	// An unknown name is a 404, not a bad request.
	if w := runRequest(t, `{"name":"ghost"}`); w.Code != 404 {
		t.Errorf("unknown name: status = %d, want 404", w.Code)
	}
}

func TestHandleRunVerify(t *testing.T) {
	s := scenario.New("verify-test", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 3
	e, err := entity.New("store-1", entity.KindStore, 1000, 600, 0.05)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	if err := s.AddEntity(e); err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(RunRequest{Scenario: s, Verify: true})
	if err != nil {
		t.Fatal(err)
	}

	w := runRequest(t, string(body))
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks == nil {
		t.Fatal("verify run should include the consistency report")
	}
	if !resp.Checks.AllPassed {
		t.Errorf("checks failed: %v", resp.Checks.FailedChecks)
	}
	if resp.Checks.Horizon != 3 {
		t.Errorf("checks horizon = %d, want 3", resp.Checks.Horizon)
	}
}

func TestHandleRunBadRequests(t *testing.T) {
	if w := runRequest(t, "{not json"); w.Code != 400 {
		t.Errorf("malformed body: status = %d, want 400", w.Code)
	}
	if w := runRequest(t, "{}"); w.Code != 400 {
		t.Errorf("missing scenario: status = %d, want 400", w.Code)
	}

	// Invalid entity surfaces as 400, not 500.
	body := `{"scenario":{"name":"bad","assumptions":{"inflation_rate":0.02,"horizon":3,"start_year":2025},"entities":[{"id":"e1","type":"Warehouse","initial_revenue":10,"initial_cost":5,"growth_rate":0}]}}`
	if w := runRequest(t, body); w.Code != 400 {
		t.Errorf("invalid entity kind: status = %d, want 400", w.Code)
	}
}

func TestHandleRunMonthly(t *testing.T) {
	s := scenario.New("api-monthly", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 2
	s.Detail = &scenario.DetailInputs{
		BaseRevenue: 10000,
		BaseCOGSPct: 0.5,
	}

	store, err := entity.New("store-1", entity.KindStore, 1000, 600, 0.05)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	if err := s.AddEntity(store); err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(RunRequest{Scenario: s, Months: 24, DiscountRate: 0.08})
	if err != nil {
		t.Fatal(err)
	}

	w := runRequest(t, string(body))
	if w.Code != 200 {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp RunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Monthly) != 24 {
		t.Errorf("monthly rows = %d, want 24", len(resp.Monthly))
	}
	if resp.Valuation == nil {
		t.Error("valuation should accompany the monthly model")
	}
}
