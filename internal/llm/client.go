// Package llm talks to an OpenRouter-compatible chat-completions endpoint
// and classifies its failures into retryable and non-retryable categories.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the OpenRouter API endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// DefaultTimeout bounds a single request/response round trip. There is no
// mid-flight cancellation beyond this transport timeout.
const DefaultTimeout = 30 * time.Second

// Client is a minimal HTTP client for the chat completions API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	referer    string
	title      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint. Used for OpenRouter-compatible
// gateways and in tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout overrides the transport timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRouting sets the auxiliary routing headers (HTTP-Referer, X-Title)
// that OpenRouter uses for attribution.
func WithRouting(referer, title string) ClientOption {
	return func(c *Client) {
		c.referer = referer
		c.title = title
	}
}

// NewClient creates a Client for the given credential and model.
func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   model,
		title:   "gitweekly",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Request is a single chat completion request.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the request and returns the completion text. Failures
// come back as *APIError with a category derived from the HTTP status or
// transport error, so callers and the retry policy can classify them
// without string matching on their side.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	payload := chatPayload{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &APIError{Category: Generic, Message: fmt.Sprintf("marshal payload: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Category: Generic, Message: fmt.Sprintf("build request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &APIError{Category: Network, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &APIError{Category: Generic, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &APIError{Category: Generic, Message: "response contained no choices"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// statusError maps an HTTP error status to a categorized APIError,
// including a bounded slice of the response body for diagnostics.
func statusError(resp *http.Response) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	var category Category
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		category = RateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		category = Auth
	case http.StatusNotFound:
		category = NotFound
	case http.StatusRequestEntityTooLarge:
		category = PayloadTooLarge
	case http.StatusRequestTimeout, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		category = Network
	default:
		category = Generic
	}

	return &APIError{
		Category: category,
		Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)),
	}
}

// AsAPIError unwraps err to an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
