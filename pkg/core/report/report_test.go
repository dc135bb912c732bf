package report

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"mixeduse_planner/pkg/core/entity"
	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
)

func reportFixture(t *testing.T) (*scenario.Scenario, *projection.Result) {
	t.Helper()
	s := scenario.New("main-street", 2025)
	s.Assumptions.InflationRate = 0.02
	s.Assumptions.Horizon = 3

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

	res, err := projection.Project(s)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	return s, res
}

func TestMarkdownStructure(t *testing.T) {
	s, res := reportFixture(t)

	md := Markdown(s, res)
	if !strings.Contains(md, "# Projection: main-street") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "## store-1 (Store)") {
		t.Error("missing store section")
	}
	if !strings.Contains(md, "## prop-1 (Property)") {
		t.Error("missing property section")
	}
	if !strings.Contains(md, "## Portfolio") {
		t.Error("missing portfolio section")
	}
	// Year 0 of the store: 1000 / 600 / 400.
	if !strings.Contains(md, "| 2025 | 1000.00 | 600.00 | 400.00 | 400.00 |") {
		t.Errorf("store year-0 row not found in:\n%s", md)
	}
}

func TestHTMLTables(t *testing.T) {
	s, res := reportFixture(t)

	html, err := HTML(s, res)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse report HTML: %v", err)
	}

	// Two entity tables plus the portfolio table.
	if n := doc.Find("table").Length(); n != 3 {
		t.Errorf("table count = %d, want 3", n)
	}
	if n := doc.Find("h2").Length(); n != 3 {
		t.Errorf("h2 count = %d, want 3", n)
	}
	if title := doc.Find("h1").Text(); title != "Projection: main-street" {
		t.Errorf("h1 = %q", title)
	}

	// Each table has 3 data rows, one per projected year.
	doc.Find("table").Each(func(i int, tbl *goquery.Selection) {
		if n := tbl.Find("tbody tr").Length(); n != 3 {
			t.Errorf("table %d: %d body rows, want 3", i, n)
		}
	})

	// Portfolio year-0 net: 400 + 1600 = 2000.
	if !strings.Contains(html, "2000.00") {
		t.Error("portfolio year-0 net missing from HTML")
	}
}
