// Command project runs a scenario projection from the command line and
// optionally writes an HTML report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/report"
	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/store"
	"mixeduse_planner/pkg/core/utils"
	"mixeduse_planner/pkg/core/validate"
	"mixeduse_planner/pkg/core/valuation"
)

func main() {
	godotenv.Load()

	var (
		name    = flag.String("scenario", "", "scenario name to load from the store")
		file    = flag.String("file", "", "scenario file (JSON or HJSON) to load directly")
		months  = flag.Int("months", 0, "also run the monthly cash-flow model for N months")
		outlay  = flag.Float64("outlay", 0, "initial outlay for DCF valuation (with -months)")
		rate    = flag.Float64("rate", 0.08, "annual discount rate for DCF valuation")
		htmlOut = flag.String("html", "", "write HTML report to this path")
	)
	flag.Parse()

	s, err := loadScenario(*name, *file)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	result, err := projection.Project(s)
	if err != nil {
		fmt.Printf("[FATAL] Projection failed: %v\n", err)
		os.Exit(1)
	}

	// Cross-check the arithmetic before printing anything.
	if check := validate.CheckProjection(result, 1e-6); !check.AllPassed {
		for _, failed := range check.FailedChecks {
			fmt.Fprintf(os.Stderr, "[CHECK] %s\n", failed)
		}
		fmt.Fprintln(os.Stderr, "[WARNING] Projection failed internal consistency checks")
	}

	fmt.Print(report.Markdown(s, result))

	if *months > 0 && s.Detail != nil {
		rows, err := projection.ProjectMonthly(s, *months)
		if err != nil {
			fmt.Printf("[FATAL] Monthly projection failed: %v\n", err)
			os.Exit(1)
		}
		dcf := valuation.Evaluate(rows, valuation.DCFInput{
			InitialOutlay: *outlay,
			AnnualRate:    *rate,
		})
		fmt.Printf("\n## Valuation (%d months)\n\n", *months)
		fmt.Printf("- NPV: %.2f\n", dcf.NPV)
		fmt.Printf("- IRR: %.4f\n", dcf.IRR)
		fmt.Printf("- Payback month: %d\n", dcf.PaybackMonth)
	}

	if *htmlOut != "" {
		html, err := report.HTML(s, result)
		if err != nil {
			fmt.Printf("[FATAL] Report render failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*htmlOut, []byte(html), 0644); err != nil {
			fmt.Printf("[FATAL] Write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n[REPORT] Wrote %s\n", *htmlOut)
	}
}

func loadScenario(name, file string) (*scenario.Scenario, error) {
	switch {
	case file != "":
		return loadFromFile(file)
	case name != "":
		st := store.NewScenarioStore(nil, os.Getenv("SCENARIO_DIR"))
		return st.Load(context.Background(), name)
	default:
		return nil, fmt.Errorf("one of -scenario or -file is required")
	}
}

func loadFromFile(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s scenario.Scenario
	if err := utils.ParseHJSONToStruct(string(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
