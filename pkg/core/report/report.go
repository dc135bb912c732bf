// Package report renders projection results as markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// Markdown renders the scenario assumptions and projection tables as a
// markdown document: one table per entity plus the portfolio rollup.
func Markdown(s *scenario.Scenario, res *projection.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Projection: %s\n\n", s.Name)
	if s.Assumptions != nil {
		fmt.Fprintf(&b, "- Start year: %d\n", s.Assumptions.StartYear)
		fmt.Fprintf(&b, "- Horizon: %d years\n", res.Horizon)
		fmt.Fprintf(&b, "- Inflation rate: %.2f%%\n", s.Assumptions.InflationRate*100)
	}
	fmt.Fprintf(&b, "- Entities: %d\n\n", len(s.Entities))

	for _, ep := range res.Entities {
		fmt.Fprintf(&b, "## %s (%s)\n\n", ep.EntityID, ep.Kind)
		writeTable(&b, ep.Rows, res.StartYear)
	}

	b.WriteString("## Portfolio\n\n")
	writeTable(&b, res.Portfolio, res.StartYear)

	return b.String()
}

// Rows carry year offsets; the table shows calendar years.
func writeTable(b *strings.Builder, rows []projection.Row, startYear int) {
	b.WriteString("| Year | Revenue | Cost | Net | Cumulative |\n")
	b.WriteString("|------|---------|------|-----|------------|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %d | %.2f | %.2f | %.2f | %.2f |\n",
			startYear+row.Year, row.Revenue, row.Cost, row.Net, row.Cumulative)
	}
	b.WriteString("\n")
}

// HTML renders the markdown report to a standalone HTML page.
func HTML(s *scenario.Scenario, res *projection.Result) (string, error) {
	md := Markdown(s, res)

	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&page, "<title>Projection: %s</title>\n", s.Name)
	page.WriteString("<style>table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px;text-align:right}th:first-child,td:first-child{text-align:left}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(buf.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
