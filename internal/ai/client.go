// Package ai talks to OpenAI compatible chat completion services: quiz
// generation, word recognition in images and the dictionary assistant.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/example/flashcards/internal/apperr"
	"github.com/sashabaranov/go-openai"
)

// Supported providers
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("OpenAI API key is not set")

// Config holds the AI service configuration
type Config struct {
	Provider    string
	APIKey      string
	Endpoints   []string
	APIVersion  string
	QuizModel   string
	VisionModel string
	ChatModel   string
	Retry       RetryPolicy
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Endpoints:   []string{"https://api.openai.com/v1"},
		QuizModel:   "gpt-4-1106-preview",
		VisionModel: "gpt-4o",
		ChatModel:   "gpt-4",
		Retry:       DefaultRetryPolicy(),
	}
}

type endpoint struct {
	url    string
	client *openai.Client
}

// Client sends chat completions to one or more endpoints
type Client struct {
	config    *Config
	endpoints []endpoint
	logger    *slog.Logger
}

// NewClient creates a client with one go-openai client per endpoint
func NewClient(cfg *Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Apply defaults for unset values
	defaults := DefaultConfig()
	if cfg.Provider == "" {
		cfg.Provider = defaults.Provider
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = defaults.Endpoints
	}
	if cfg.QuizModel == "" {
		cfg.QuizModel = defaults.QuizModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaults.VisionModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaults.ChatModel
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = defaults.Retry
	}

	c := &Client{config: cfg, logger: logger}
	for _, url := range cfg.Endpoints {
		var clientConfig openai.ClientConfig
		switch cfg.Provider {
		case ProviderOpenAI:
			clientConfig = openai.DefaultConfig(cfg.APIKey)
			clientConfig.BaseURL = url
		case ProviderAzure:
			clientConfig = openai.DefaultAzureConfig(cfg.APIKey, url)
			if cfg.APIVersion != "" {
				clientConfig.APIVersion = cfg.APIVersion
			}
		default:
			return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
		}
		c.endpoints = append(c.endpoints, endpoint{url: url, client: openai.NewClientWithConfig(clientConfig)})
	}
	return c, nil
}

// Config returns the effective configuration
func (c *Client) Config() *Config {
	return c.config
}

// attemptContext bounds a single call by the configured attempt timeout
func (c *Client) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := c.config.Retry.AttemptTimeout; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// completeAt sends the request to a single endpoint and returns the first choice
func (c *Client) completeAt(ctx context.Context, ep endpoint, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()
	resp, err := ep.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(ep.url, err)
	}
	if len(resp.Choices) == 0 {
		return "", &apperr.MalformedResponseError{Reason: "no choices in response"}
	}
	c.logger.Debug("Chat completion finished",
		"endpoint", ep.url,
		"model", req.Model,
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

// Complete tries every endpoint once, in order, and returns the first answer
func (c *Client) Complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var lastErr error
	for _, ep := range c.endpoints {
		content, err := c.completeAt(ctx, ep, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("Endpoint failed", "endpoint", ep.url, "error", err)
	}
	return "", lastErr
}

// classify maps a go-openai failure to the network, timeout or malformed kinds
func classify(url string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &apperr.NetworkError{Endpoint: url, Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &apperr.NetworkError{Endpoint: url, Status: reqErr.HTTPStatusCode, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperr.TimeoutError{Endpoint: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &apperr.TimeoutError{Endpoint: url, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &apperr.MalformedResponseError{Reason: "response body is not valid JSON", Err: err}
	}
	return &apperr.NetworkError{Endpoint: url, Err: err}
}
