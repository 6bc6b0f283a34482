// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/tripcanvas/consensus"
)

// Client talks to an OpenAI-compatible chat completions endpoint. It is the
// production Generator; anything speaking the same wire format (including an
// httptest fake) works as the backend.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	maxProposals int
	http         *http.Client
}

// NewClient builds a generator client. maxProposals bounds how many
// proposals a round asks for (0 means the default of 5).
func NewClient(baseURL, apiKey, model string, maxProposals int) *Client {
	if maxProposals <= 0 {
		maxProposals = consensus.DefaultMaxProposals
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		model:        model,
		maxProposals: maxProposals,
		// Generation is slow; the per-request context can still cut this short.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete runs one chat completion and returns the assistant's content.
func (c *Client) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("undecodable chat response: %w", ErrMalformedOutput)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("generator error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response has no content: %w", ErrMalformedOutput)
	}

	return parsed.Choices[0].Message.Content, nil
}

// GeneratePlan implements Generator.
func (c *Client) GeneratePlan(ctx context.Context, summary consensus.AggregateSummary) (*PlanPayload, error) {
	content, err := c.complete(ctx, chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: planPrompt(summary, c.maxProposals)}},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	var payload PlanPayload
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return nil, fmt.Errorf("plan payload does not decode: %w", ErrMalformedOutput)
	}
	if len(payload.Proposals) == 0 || len(payload.Questions) == 0 {
		return nil, fmt.Errorf("plan payload is missing proposals or questions: %w", ErrMalformedOutput)
	}

	return &payload, nil
}

// GenerateItinerary implements Generator.
func (c *Client) GenerateItinerary(ctx context.Context, req ItineraryRequest) (json.RawMessage, error) {
	content, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a JSON travel itinerary generator."},
			{Role: "user", Content: itineraryPrompt(req)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	trimmed := stripFences(content)
	if !json.Valid([]byte(trimmed)) {
		return nil, fmt.Errorf("itinerary is not well-formed JSON: %w", ErrMalformedOutput)
	}
	return json.RawMessage(trimmed), nil
}

// SuggestImprovements implements Generator.
func (c *Client) SuggestImprovements(ctx context.Context, itinerary json.RawMessage) ([]string, error) {
	temp := 0.7
	content, err := c.complete(ctx, chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: suggestionsPrompt(itinerary)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(stripFences(content)), &suggestions); err != nil {
		// Models occasionally answer in prose despite the instructions;
		// surface the text rather than failing the whole review.
		return []string{content}, nil
	}
	return suggestions, nil
}

// stripFences removes markdown code fences that models sometimes wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
