// Package llm implements the normalizer: a single blocking chat-completion
// call that reconciles heuristically extracted fields into the canonical
// profile schema.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/gfgprofile/config"
	"github.com/use-agent/gfgprofile/models"
)

// Client is a lightweight OpenAI-compatible API client.
// It uses net/http directly — no third-party SDK needed.
type Client struct {
	httpClient *http.Client
	cfg        config.LLMConfig
}

// NewClient creates a new LLM client. Pass nil to build an http.Client from
// the configured timeout.
func NewClient(cfg config.LLMConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// NormalizeResult holds the normalizer output.
type NormalizeResult struct {
	Data  json.RawMessage
	Usage *models.LLMUsage
}

// chatRequest is the chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Normalize sends the username and serialized extracted fields to the model
// and returns the JSON object it produced. The response text is parsed
// directly first; failing that, the first-{-to-last-} span is tried. If both
// fail the run is over, and the raw text rides along in the error for debugging.
func (c *Client) Normalize(ctx context.Context, username string, fields *models.ExtractedFields) (*NormalizeResult, error) {
	rawFields, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted fields: %w", err)
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(username)},
			{Role: "user", Content: "Raw extracted info:\n" + string(rawFields)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// Build URL: baseURL + /chat/completions
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyLLMError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeLLMFailure, "failed to parse LLM response", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, models.NewPipelineError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	content := chatResp.Choices[0].Message.Content

	data, ok := recoverJSON(content)
	if !ok {
		return nil, models.NewPipelineError(models.ErrCodeInvalidJSON,
			"invalid JSON from model:\n"+content, nil)
	}

	return &NormalizeResult{
		Data: data,
		Usage: &models.LLMUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

// recoverJSON attempts direct parsing of the full response text, then falls
// back to the greedy first-{-to-last-} span, which must be allowed to span
// newlines (models like to wrap JSON in prose and code fences).
func recoverJSON(content string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(content)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), true
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		span := content[start : end+1]
		if json.Valid([]byte(span)) {
			return json.RawMessage(span), true
		}
	}

	return nil, false
}

// classifyLLMError maps HTTP status codes to appropriate error codes.
func classifyLLMError(statusCode int, body []byte) *models.PipelineError {
	var errResp chatErrorResponse
	msg := "LLM API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewPipelineError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewPipelineError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewPipelineError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), nil)
	}
}
