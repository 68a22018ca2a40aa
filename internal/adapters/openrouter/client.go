// Package openrouter implements the reasoning-model adapter on the
// OpenRouter chat-completions API.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/domain"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

const systemPrompt = `You are Heritage Pulse AI, an expert guide specializing in cultural heritage, historical sites, monuments, and traditions from around the world.

Be informative, enthusiastic, and respectful of all cultures. When unsure about specific facts, acknowledge limitations rather than inventing information.`

const plannerPrompt = `You are an expert travel planner for Heritage Pulse.
Your task is to generate a detailed, culturally rich itinerary based ONLY on the provided context data.
DO NOT hallucinate sites that are not in the context.
Focus on logistics, historical significance, and efficient routing.

Output must be valid JSON matching this structure:
{
  "summary": "Brief overview",
  "days": [
    {
      "day": 1,
      "theme": "Theme of the day",
      "activities": [
        {
          "time": "09:00",
          "activity": "Activity description",
          "location": "Location name",
          "site_id": "id from the context",
          "notes": "Historical context or tips"
        }
      ]
    }
  ]
}`

type Client struct {
	base      string
	chatModel string
	planModel string
	hc        *httpx.Client
}

// New builds the adapter. LLM calls are not retried: a failed generation is
// surfaced as domain.ErrGeneration rather than re-billed.
func New(base, apiKey, chatModel, planModel string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter: API key is required")
	}
	if base == "" {
		base = defaultBaseURL
	}
	hc := httpx.New("openrouter", timeout, 0, httpx.RetryPolicy{MaxAttempts: 1}).
		WithHeader("Authorization", "Bearer "+apiKey).
		WithHeader("HTTP-Referer", "https://heritage-pulse.app").
		WithHeader("X-Title", "Heritage Pulse")
	return &Client{base: base, chatModel: chatModel, planModel: planModel, hc: hc}, nil
}

type completionRequest struct {
	Model          string               `json:"model"`
	Messages       []domain.ChatMessage `json:"messages"`
	Temperature    float64              `json:"temperature"`
	MaxTokens      int                  `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, req completionRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	var resp completionResponse
	if err := c.hc.PostJSON(ctx, c.base+"/chat/completions", "application/json", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openrouter: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// PlanItinerary asks the reasoning model for a schedule proposal over the
// candidate registry. Structured output is requested; the textual JSON
// extraction in ExtractJSON is the fallback path for models that wrap their
// answer in reasoning traces or code fences.
func (c *Client) PlanItinerary(ctx context.Context, pc domain.PlanContext) (domain.PlannerProposal, error) {
	ctxJSON, err := json.Marshal(pc)
	if err != nil {
		return domain.PlannerProposal{}, err
	}

	content, err := c.complete(ctx, completionRequest{
		Model: c.planModel,
		Messages: []domain.ChatMessage{
			{Role: "system", Content: plannerPrompt},
			{Role: "user", Content: "Create an itinerary based on the following data: " + string(ctxJSON)},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return domain.PlannerProposal{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	var proposal domain.PlannerProposal
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &proposal); err != nil {
		return domain.PlannerProposal{}, fmt.Errorf("%w: unparsable model output: %v", domain.ErrGeneration, err)
	}
	return proposal, nil
}

// Chat runs one conversation turn with optional grounding context appended
// to the system prompt.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, context string) (string, error) {
	sys := systemPrompt
	if context != "" {
		sys += "\n\nContext: " + context
	}
	msgs := append([]domain.ChatMessage{{Role: "system", Content: sys}}, messages...)

	content, err := c.complete(ctx, completionRequest{
		Model:       c.chatModel,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	return content, nil
}
