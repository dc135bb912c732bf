// Package advisor wraps the LLM layer behind a consultant interface for
// scenario reviews. Failures here never invalidate a projection run; they
// surface as ServiceError and the caller decides how loudly to complain.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"

	"mixeduse_planner/pkg/core/agent"
	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/prompt"
	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/utils"
)

// ServiceError indicates the consultant backend failed or returned
// something unusable. It is always non-fatal to the caller's workflow.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("SERVICE_ERROR: provider '%s': %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// AgentType is the role key used to resolve the provider from config.
const AgentType = "advisor"

// YearLine is one year of the summary payload sent to the model.
type YearLine struct {
	Year       int     `json:"year"`
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

// Summary is the compact scenario digest the consultant reasons over.
// It carries assumptions and the portfolio series, not raw entities.
type Summary struct {
	ScenarioName  string     `json:"scenario_name"`
	StartYear     int        `json:"start_year"`
	Horizon       int        `json:"horizon"`
	InflationRate float64    `json:"inflation_rate"`
	EntityCount   int        `json:"entity_count"`
	Portfolio     []YearLine `json:"portfolio"`
}

// BuildSummary condenses a scenario and its projection into the payload
// shape the consultant prompt expects.
func BuildSummary(s *scenario.Scenario, res *projection.Result) *Summary {
	sum := &Summary{
		ScenarioName: s.Name,
		StartYear:    res.StartYear,
		Horizon:      res.Horizon,
		EntityCount:  len(s.Entities),
	}
	if s.Assumptions != nil {
		sum.InflationRate = s.Assumptions.InflationRate
	}
	for _, row := range res.Portfolio {
		sum.Portfolio = append(sum.Portfolio, YearLine{
			Year:       res.StartYear + row.Year,
			Revenue:    row.Revenue,
			Cost:       row.Cost,
			Net:        row.Net,
			Cumulative: row.Cumulative,
		})
	}
	return sum
}

// Advice is the structured consultant response when JSON mode is requested.
type Advice struct {
	Assessment string   `json:"assessment"`
	Risks      []string `json:"risks"`
	Actions    []string `json:"actions"`
}

// Consultant answers questions about a projected scenario.
type Consultant struct {
	manager *agent.Manager
}

func NewConsultant(mgr *agent.Manager) *Consultant {
	return &Consultant{manager: mgr}
}

// BuildPrompt renders the user prompt: the summary as JSON followed by the
// caller's question. Exposed so tests and the streaming path share it.
func BuildPrompt(sum *Summary, question string) (string, error) {
	payload, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	if question == "" {
		question = "Review this projection and comment on its overall health."
	}
	return fmt.Sprintf("Projection summary:\n```json\n%s\n```\n\nQuestion: %s", string(payload), question), nil
}

// Ask sends the summary and question to the configured provider and
// returns cleaned markdown advice.
func (c *Consultant) Ask(ctx context.Context, sum *Summary, question string) (string, error) {
	userPrompt, err := BuildPrompt(sum, question)
	if err != nil {
		return "", &ServiceError{Provider: c.manager.GetActiveProvider(), Err: err}
	}

	systemPrompt := prompt.GetAdvisorPrompt("consultant")

	raw, err := c.manager.ExecutePrompt(ctx, AgentType, userPrompt, systemPrompt, nil)
	if err != nil {
		return "", &ServiceError{Provider: c.manager.GetActiveProvider(), Err: err}
	}

	return utils.CleanMarkdown(raw), nil
}

// AskStructured requests JSON-mode advice and decodes it leniently, so a
// model that wraps its JSON in prose or fences still parses.
func (c *Consultant) AskStructured(ctx context.Context, sum *Summary, question string) (*Advice, error) {
	userPrompt, err := BuildPrompt(sum, question)
	if err != nil {
		return nil, &ServiceError{Provider: c.manager.GetActiveProvider(), Err: err}
	}

	systemPrompt := prompt.GetAdvisorPrompt("structured")
	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}

	raw, err := c.manager.ExecutePrompt(ctx, AgentType, userPrompt, systemPrompt, options)
	if err != nil {
		return nil, &ServiceError{Provider: c.manager.GetActiveProvider(), Err: err}
	}

	var advice Advice
	if err := utils.DecodeLenient(raw, &advice); err != nil {
		return nil, &ServiceError{Provider: c.manager.GetActiveProvider(), Err: err}
	}
	return &advice, nil
}
