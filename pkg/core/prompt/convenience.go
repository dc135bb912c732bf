package prompt

// Convenience functions for common prompt operations

// DefaultAdvisorSystemPrompt is used when no prompt library has been loaded.
// It mirrors the consultant prompt shipped under resources/prompts/advisor.
const DefaultAdvisorSystemPrompt = `You are a seasoned CFO consultant for small mixed-use real estate businesses. ` +
	`You review multi-year revenue and cost projections for a retail store and its host property. ` +
	`Comment on trends, risks, and the realism of growth and inflation assumptions. ` +
	`Be concise and concrete; refer to specific years and figures from the data provided.`

// GetAdvisorPrompt returns an advisor system prompt by name, falling back to
// the built-in consultant prompt when the library has no entry.
func GetAdvisorPrompt(name string) string {
	p, err := Get().GetSystemPrompt("advisor." + name)
	if err != nil || p == "" {
		return DefaultAdvisorSystemPrompt
	}
	return p
}

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	AdvisorConsultant string
	AdvisorStructured string
}{
	AdvisorConsultant: "advisor.consultant",
	AdvisorStructured: "advisor.structured",
}
