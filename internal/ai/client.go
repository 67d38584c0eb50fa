// Package ai drafts LaTeX workbook content through an injected chat
// completion client. Drafted text is never trusted as-is: the service layer
// sanitizes and validates every draft before it reaches a caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mathplanner/mathplanner/internal/config"
)

// ErrUnavailable is returned when no drafting backend is configured.
var ErrUnavailable = errors.New("ai drafting is not configured")

// DraftRequest describes one content draft.
type DraftRequest struct {
	Level    string `json:"level"`
	Chapter  int    `json:"chapter"`
	Subject  string `json:"subject,omitempty"`
	Language string `json:"language"`
}

// DraftClient produces raw LaTeX for a draft request. Implementations
// return the model text verbatim; cleanup belongs to the caller.
type DraftClient interface {
	Draft(ctx context.Context, req DraftRequest) (string, error)
}

// Unavailable is the constructible no-backend state. Every call fails with
// ErrUnavailable so callers degrade to the built-in template.
type Unavailable struct{}

func (Unavailable) Draft(context.Context, DraftRequest) (string, error) {
	return "", ErrUnavailable
}

// HTTPClient talks to a chat-completions style API (DeepSeek, OpenAI and
// compatible gateways share the request shape).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds the configured drafting client. A missing API key yields
// the Unavailable state instead of a client that fails mid-request.
func NewClient(cfg config.AIConfig) DraftClient {
	if cfg.APIKey == "" {
		return Unavailable{}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = "Tu es un professeur de mathematiques. Tu produis des documents LaTeX complets et compilables, sans texte d'accompagnement."

// Draft requests one LaTeX document from the model.
func (c *HTTPClient) Draft(ctx context.Context, req DraftRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		Temperature: 0.4,
		MaxTokens:   4096,
	})
	if err != nil {
		return "", fmt.Errorf("marshal draft request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("draft api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read draft response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("draft api status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode draft response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("draft api error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", errors.New("draft api returned no choices")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// buildPrompt writes the content request in the requested language.
func buildPrompt(req DraftRequest) string {
	subject := req.Subject
	if req.Language == "en" {
		if subject == "" {
			subject = "mathematics"
		}
		return fmt.Sprintf(
			"Write a complete LaTeX workbook for level %s, chapter %d, on %s. Include a lesson section, exercises and homework. Respond with LaTeX only.",
			req.Level, req.Chapter, subject)
	}
	if subject == "" {
		subject = "mathematiques"
	}
	return fmt.Sprintf(
		"Redige un cahier de travail LaTeX complet pour le niveau %s, chapitre %d, sur %s. Inclus une section de cours, des exercices et des devoirs. Reponds uniquement en LaTeX.",
		req.Level, req.Chapter, subject)
}
