// Package gemini adapts the Google Generative AI API as the opaque content
// generation collaborator.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/infrastructure/resilience"
)

type Client struct {
	client       *genai.Client
	defaultModel string
	executor     *resilience.Executor
}

func New(ctx context.Context, apiKey, defaultModel string, executor *resilience.Executor) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	if defaultModel == "" {
		defaultModel = "gemini-1.5-flash"
	}
	return &Client{client: cl, defaultModel: defaultModel, executor: executor}, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Generate runs one completion. There is no retry and no fallback model;
// the caller surfaces the failure as-is.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	var out string
	call := func(ctx context.Context) error {
		m := c.client.GenerativeModel(model)
		if systemPrompt != "" {
			m.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(systemPrompt)},
			}
		}

		resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return fmt.Errorf("empty candidate response")
		}

		var b strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		out = b.String()
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini.generate", call, classifyGenerationError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrGeneration, "gemini generate", err)
	}
	return out, nil
}

func classifyGenerationError(err error) resilience.ErrorClassification {
	// Input validation failures should not poison the breaker.
	return resilience.ErrorClassification{
		RecordFailure: !domain.IsKind(err, domain.ErrValidation),
	}
}
