package advisor

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultMaxOutputTokens caps the length of generated tips.
const DefaultMaxOutputTokens = 300

// GenAIGenerator generates text with Google's Gemini API.
type GenAIGenerator struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGenAIGenerator creates a Gemini client for the given model.
func NewGenAIGenerator(ctx context.Context, apiKey, model string, maxTokens int) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
	}, nil
}

func (g *GenAIGenerator) Model() string {
	return g.model
}

// Generate sends a single-turn text prompt.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return text, nil
}
