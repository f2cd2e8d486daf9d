// Package openai provides an OpenAI-compatible chat completion client.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/harsha499/incident-desk/internal/llm"
	"github.com/harsha499/incident-desk/internal/pkg/metrics"
)

// Config contains chat completion client configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	MaxRetries   int
	RateLimitRPS float64
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a new client. Missing config values fall back to defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4-turbo-preview"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type chatCompletionRequest struct {
	Model      string               `json:"model"`
	Messages   []llm.Message        `json:"messages"`
	Tools      []llm.ToolDefinition `json:"tools,omitempty"`
	ToolChoice string               `json:"tool_choice,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      llm.Message `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Chat submits the transcript plus tool schema and returns the model's reply.
// Transient failures (429, 5xx, transport errors) are retried with backoff.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (*llm.Response, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: missing API key", llm.ErrUnavailable)
	}

	payload := chatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	if len(tools) > 0 {
		payload.Tools = tools
		payload.ToolChoice = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			c.logger.Warn("retrying chat completion request",
				"attempt", attempt+1, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, retryable, err := c.doRequest(ctx, endpoint, body)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !retryable {
				return nil, err
			}
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("chat completion failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body []byte) (*llm.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	res, err := c.httpClient.Do(req)
	metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelRequestErrors.Inc()
		return nil, true, fmt.Errorf("chat completion request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		metrics.ModelRequestErrors.Inc()
		return nil, true, fmt.Errorf("read chat completion response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		metrics.ModelRequestErrors.Inc()
		c.logger.Error("chat completion failed",
			"status", res.StatusCode, "body", truncate(string(respBody), 500))
		return nil, isRetryableStatus(res.StatusCode),
			fmt.Errorf("chat completion failed with status %d", res.StatusCode)
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, false, fmt.Errorf("decode chat completion response: %w", err)
	}
	if response.Error != nil {
		metrics.ModelRequestErrors.Inc()
		return nil, false, fmt.Errorf("chat completion API error (%s): %s",
			response.Error.Type, response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, false, fmt.Errorf("chat completion response returned no choices")
	}

	choice := response.Choices[0]
	return &llm.Response{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, false, nil
}

func isRetryableStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code < 600:
		return true
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
