// Package generation implements the client for the text-generation
// collaborator (Google Gemini) plus the phase prompt builders and the JSON
// plumbing that turns raw model output into opaque payload documents.
package generation

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"strategos/internal/config"
	"strategos/internal/logging"
)

// =============================================================================
// GEMINI GENERATION CLIENT
// =============================================================================

// GeminiClient implements types.GenerationClient using the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini-backed generation client.
func NewGeminiClient(cfg config.LLMConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: cfg.TimeoutDuration(),
	}, nil
}

// Complete sends a prompt and returns the text response.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, nil, prompt)
}

// CompleteWithSystem sends a prompt with a system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var sys *genai.Content
	if systemPrompt != "" {
		sys = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return c.generate(ctx, sys, userPrompt)
}

func (c *GeminiClient) generate(ctx context.Context, system *genai.Content, prompt string) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "GenerateContent")
	defer timer.Stop()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	}
	if system != nil {
		cfg.SystemInstruction = system
	}

	logging.APIDebug("Generating: model=%s prompt_len=%d", c.model, len(prompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		logging.APIError("Generation failed: %v", err)
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		logging.APIError("Generation returned empty response")
		return "", fmt.Errorf("generation returned empty response")
	}

	logging.APIDebug("Generation complete: response_len=%d", len(text))
	return text, nil
}
