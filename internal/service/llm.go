package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/pageza/recipe-chatbot/backend/config"
	"go.uber.org/zap"
)

// Message represents a message in the chat. Content is either a string or a slice of
// ContentPart for multimodal requests.
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ContentPart is one element of a multimodal message
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image, usually as a base64 data URL
type ImageURL struct {
	URL string `json:"url"`
}

// ResponseFormat asks the provider for a specific output format
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest represents a request to an OpenAI-compatible chat completions API
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

// ChatResponse is the subset of the completion response we read
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// APIError is the provider's error envelope
type APIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// LLMClient talks to the chat completions provider. The HTTP client is built on first use
// by Initialize; construct one LLMClient per process and share it.
type LLMClient struct {
	cfg    config.LLMConfig
	logger *zap.Logger

	once    sync.Once
	rest    *resty.Client
	initErr error
}

// NewLLMClient creates a new LLMClient. No network activity happens until the first call.
func NewLLMClient(cfg config.LLMConfig, logger *zap.Logger) *LLMClient {
	return &LLMClient{cfg: cfg, logger: logger}
}

// Initialize builds the underlying HTTP client. It is safe to call more than once and from
// several goroutines; only the first call does any work.
func (c *LLMClient) Initialize() error {
	c.once.Do(func() {
		if c.cfg.APIKey == "" {
			c.initErr = ErrLLMNotConfigured
			return
		}
		c.rest = resty.New().
			SetBaseURL(strings.TrimRight(c.cfg.BaseURL, "/")).
			SetAuthToken(c.cfg.APIKey).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
		c.logger.Info("llm client initialized",
			zap.String("base_url", c.cfg.BaseURL),
			zap.String("model", c.cfg.Model),
		)
	})
	return c.initErr
}

func (c *LLMClient) client() (*resty.Client, error) {
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	return c.rest, nil
}

// Complete sends a chat request and returns the first choice's content. The call is
// bounded by the configured timeout.
func (c *LLMClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	rest, err := c.client()
	if err != nil {
		return "", err
	}

	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var (
		out    ChatResponse
		apiErr APIError
	)
	resp, err := rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode(), msg)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return out.Choices[0].Message.Content, nil
}

// CompleteJSON runs a system + user prompt in JSON mode and returns the raw content
func (c *LLMClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return c.Complete(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
		Temperature:    c.cfg.Temperature,
	})
}

// VisionModel returns the model used for image transcription
func (c *LLMClient) VisionModel() string {
	return c.cfg.VisionModel
}

// decodeModelJSON unmarshals model output into v, tolerating markdown code fences
func decodeModelJSON(content string, v interface{}) error {
	content = stripCodeFence(content)
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return extractionFailure(ExtractionMalformed, fmt.Errorf("invalid JSON from model: %w", err))
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
