package advisor

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"mixeduse_planner/pkg/core/prompt"
)

// StreamConsultant streams consultant output chunk by chunk, for the SSE
// endpoint. It talks to Gemini directly because the Provider interface is
// request/response only.
type StreamConsultant struct {
	modelName string
	client    *genai.Client
}

func NewStreamConsultant(ctx context.Context) (*StreamConsultant, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &StreamConsultant{
		modelName: "gemini-2.0-flash",
		client:    client,
	}, nil
}

func (s *StreamConsultant) Close() error {
	return s.client.Close()
}

// Stream sends the summary and question to the model and invokes emit for
// every text chunk as it arrives. Errors after the first chunk are still
// returned so the caller can close the event stream cleanly.
func (s *StreamConsultant) Stream(ctx context.Context, sum *Summary, question string, emit func(chunk string) error) error {
	userPrompt, err := BuildPrompt(sum, question)
	if err != nil {
		return &ServiceError{Provider: "gemini", Err: err}
	}

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.4)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.GetAdvisorPrompt("consultant"))},
	}

	iter := model.GenerateContentStream(ctx, genai.Text(userPrompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return &ServiceError{Provider: "gemini", Err: err}
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				if err := emit(string(txt)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
