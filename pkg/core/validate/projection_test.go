package validate

import (
	"testing"

	"mixeduse_planner/pkg/core/entity"
	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
)

func twoEntityScenario(t *testing.T) *scenario.Scenario {
	t.Helper()
	s := scenario.New("check", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 5

	store, err := entity.New("store-1", entity.KindStore, 1000, 600, 0.05)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	prop, err := entity.New("prop-1", entity.KindProperty, 2400, 800, 0.01)
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	if err := s.AddEntity(store); err != nil {
		t.Fatal(err)
	}
	if err := s.AddEntity(prop); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCheckProjectionPasses(t *testing.T) {
	res, err := projection.Project(twoEntityScenario(t))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	report := CheckProjection(res, 1e-9)
	if !report.AllPassed {
		t.Errorf("engine output failed consistency checks: %v", report.FailedChecks)
	}
}

func TestCheckProjectionDetectsTampering(t *testing.T) {
	res, err := projection.Project(twoEntityScenario(t))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	res.Portfolio[2].Revenue += 100

	report := CheckProjection(res, 1e-9)
	if report.AllPassed {
		t.Error("tampered portfolio row should fail the sum check")
	}
	if len(report.FailedChecks) == 0 {
		t.Error("expected failed checks to be recorded")
	}
}

func TestCheckMonthlyCashFlow(t *testing.T) {
	rows := []projection.MonthlyRow{
		{Month: 1, StoreNet: 100, PropNet: 50, OwnerCashFlow: 150, StoreCum: 100, PropCum: 50, OwnerCum: 150},
		{Month: 2, StoreNet: -20, PropNet: 50, OwnerCashFlow: 30, StoreCum: 80, PropCum: 100, OwnerCum: 180},
	}
	if report := CheckMonthlyCashFlow(rows, 1e-9); !report.AllPassed {
		t.Errorf("consistent rows failed: %v", report.FailedChecks)
	}

	rows[1].OwnerCum = 999
	if report := CheckMonthlyCashFlow(rows, 1e-9); report.AllPassed {
		t.Error("broken cumulative should fail")
	}
}
