package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/newsdesk/internal/metrics"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// ErrNoChoices is returned when the endpoint answers without any choices.
var ErrNoChoices = errors.New("completion returned no choices")

// Roles accepted in a conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role may appear in a conversation history.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Options are generation parameters. Zero values are left to the endpoint.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client

	Stats *LLMStats
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, stats *LLMStats) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		Stats: stats,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends a single-turn request made of one system and one user
// message.
func (c *Client) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	return c.send(ctx, "complete", []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, opts)
}

// Chat sends a caller-supplied conversation history as-is.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.send(ctx, "chat", messages, Options{})
}

func (c *Client) send(ctx context.Context, op string, messages []Message, opts Options) (text string, err error) {
	started := time.Now()
	defer func() {
		metrics.RecordUpstream("openai", op, err, started)
		if c.Stats != nil {
			c.Stats.Record(time.Since(started).Milliseconds(), err == nil)
		}
	}()

	reqBody := chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: opts.MaxTokens,
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		reqBody.Temperature = &t
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp chatResponse
	decodeErr := json.Unmarshal(respBody, &apiResp)
	if decodeErr == nil && apiResp.Error != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Type: apiResp.Error.Type, Message: apiResp.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: truncate(string(respBody), 200)}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(apiResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return apiResp.Choices[0].Message.Content, nil
}

// APIError is an error reported by the completion endpoint.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("completion api status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion api status %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
