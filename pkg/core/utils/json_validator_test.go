package utils

import (
	"strings"
	"testing"
)

func TestDecodeLenient(t *testing.T) {
	type advice struct {
		Assessment string   `json:"assessment"`
		Risks      []string `json:"risks"`
	}

	// Clean JSON decodes directly.
	var a advice
	if err := DecodeLenient(`{"assessment":"fine","risks":["none"]}`, &a); err != nil {
		t.Fatalf("DecodeLenient clean: %v", err)
	}
	if a.Assessment != "fine" {
		t.Errorf("Assessment = %q", a.Assessment)
	}

	// Model output wrapped in fences with a trailing comma still parses.
	raw := "```json\n{\"assessment\": \"risky\", \"risks\": [\"inflation\",]}\n```"
	a = advice{}
	if err := DecodeLenient(raw, &a); err != nil {
		t.Fatalf("DecodeLenient fenced: %v", err)
	}
	if a.Assessment != "risky" || len(a.Risks) != 1 {
		t.Errorf("decoded %+v", a)
	}
}

func TestParseHJSON(t *testing.T) {
	hjson := `{
  # scenario header
  name: corner-lot
  assumptions: {
    horizon: 5
  }
}`
	out, err := ParseHJSON(hjson)
	if err != nil {
		t.Fatalf("ParseHJSON: %v", err)
	}
	if !strings.Contains(out, `"corner-lot"`) {
		t.Errorf("output missing quoted value: %s", out)
	}

	var doc struct {
		Name        string `json:"name"`
		Assumptions struct {
			Horizon int `json:"horizon"`
		} `json:"assumptions"`
	}
	if err := ParseHJSONToStruct(hjson, &doc); err != nil {
		t.Fatalf("ParseHJSONToStruct: %v", err)
	}
	if doc.Name != "corner-lot" || doc.Assumptions.Horizon != 5 {
		t.Errorf("decoded %+v", doc)
	}
}

func TestCleanMarkdown(t *testing.T) {
	fenced := "```markdown\n# Advice\nKeep rent flat.\n```"
	got := CleanMarkdown(fenced)
	if strings.Contains(got, "```") {
		t.Errorf("fences not stripped: %q", got)
	}
	if !strings.Contains(got, "# Advice") {
		t.Errorf("content lost: %q", got)
	}

	plain := "# Advice\nKeep rent flat."
	if CleanMarkdown(plain) != plain {
		t.Error("unfenced input should pass through")
	}
}
