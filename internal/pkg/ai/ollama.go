package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

// OllamaAPIPath is the path of the native chat endpoint.
const OllamaAPIPath = "/api/chat"

// OllamaClient talks to the native Ollama chat API.
type OllamaClient struct {
	httpClient *http.Client
	endpoint   string
}

// OllamaChatRequest represents a request to the Ollama chat API.
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  OllamaOptions   `json:"options"`
}

// OllamaMessage represents a message in the Ollama chat API.
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions carries sampling parameters. Temperature is always sent,
// including zero.
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// OllamaChatResponse represents a response from the Ollama chat API.
type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
	Error     string        `json:"error,omitempty"`
}

// NewOllamaClient creates a client for the Ollama server at cfg.Endpoint.
func NewOllamaClient(cfg ClientConfig) (*OllamaClient, error) {
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}
	return &OllamaClient{
		httpClient: newHTTPClient(cfg.Timeout),
		endpoint:   cfg.Endpoint,
	}, nil
}

// Name returns the provider name.
func (c *OllamaClient) Name() string {
	return "ollama"
}

// Chat sends one non-streaming chat request.
func (c *OllamaClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	chatReq := OllamaChatRequest{
		Model: req.Model,
		Messages: []OllamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
		Options: OllamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	apperrors.LogInferenceRequest(c.Name(), c.endpoint, req.Model, len(req.User))
	startTime := time.Now()

	resp, err := c.doRequest(ctx, chatReq)
	if err != nil {
		return "", err
	}

	apperrors.LogInferenceResponse(c.Name(), http.StatusOK, len(resp.Message.Content), time.Since(startTime))

	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	return resp.Message.Content, nil
}

// doRequest performs the HTTP request to the Ollama API.
func (c *OllamaClient) doRequest(ctx context.Context, chatReq OllamaChatRequest) (*OllamaChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+OllamaAPIPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Provider:   c.Name(),
			StatusCode: httpResp.StatusCode,
			Message:    ollamaErrorMessage(respBody),
		}
	}

	var resp OllamaChatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

// ollamaErrorMessage extracts {"error": "..."} from a failure body, falling
// back to the raw text.
func ollamaErrorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(body)
}

// IsModelNotFound reports whether err is Ollama's answer for a model that
// has not been pulled.
func IsModelNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
