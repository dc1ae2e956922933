package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/makerlink/server/pkg/ai"
)

const defaultModel = "gemini-2.5-flash"

// Generator wraps the Google GenAI client behind the ai.Summarizer interface.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// Summarize asks Gemini for a short recommendation over the top results.
func (g *Generator) Summarize(ctx context.Context, req ai.SummaryRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}
	if len(req.Candidates) == 0 {
		return "", errors.New("no candidates to summarize")
	}

	return g.generateContent(ctx, buildPrompt(req))
}

func buildPrompt(req ai.SummaryRequest) string {
	var b strings.Builder
	b.WriteString("You are assisting a client on a maker/engineering services marketplace.\n")
	b.WriteString("Project request:\n")
	b.WriteString(req.ProjectDescription)
	b.WriteString("\n\nTop matched providers:\n")

	for i, c := range req.Candidates {
		fmt.Fprintf(&b, "%d. %s (%s), match score %d/100", i+1, c.Title, c.Type, c.Score)
		if c.DistanceKm != nil {
			fmt.Fprintf(&b, ", %.1f km away", *c.DistanceKm)
		}
		if c.Price != nil {
			fmt.Fprintf(&b, ", listed price %.0f", *c.Price)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nIn two or three sentences, recommend which provider fits best and why. ")
	b.WriteString("Answer in the language of the project request.")
	return b.String()
}

func (g *Generator) generateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
