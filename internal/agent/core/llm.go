package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/satirist/config"
)

// CompletionRequest is one single-turn chat completion.
type CompletionRequest struct {
	Agent       string
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	JSON        bool
}

// LLMProvider is the language-model capability every agent calls.
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIProvider talks to any OpenAI-compatible /chat/completions endpoint (Groq by default).
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	http    *HTTPClient
}

func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &OpenAIProvider{apiKey: cfg.APIKey, baseURL: baseURL, http: NewHTTPClient(cfg.Timeout)}
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatReq struct {
	Model          string          `json:"model"`
	Messages       []chatMsg       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("llm api key not configured")
	}
	body := chatReq{
		Model:       req.Model,
		Messages:    []chatMsg{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var out chatResp
	if err := p.http.DoJSON(ctx, "POST", p.baseURL+"/chat/completions", headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
