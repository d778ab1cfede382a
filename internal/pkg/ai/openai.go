package ai

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIBasePath is appended to the endpoint to reach the
// OpenAI-compatible routes of local servers (Ollama, LM Studio, llama.cpp).
const OpenAIBasePath = "/v1"

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client   *openai.Client
	endpoint string
}

// NewOpenAIClient creates a client for the OpenAI-compatible server at cfg.Endpoint.
// Local servers usually ignore the API key, so an empty one is accepted.
func NewOpenAIClient(cfg ClientConfig) (*OpenAIClient, error) {
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = openAIBaseURL(cfg.Endpoint)
	clientConfig.HTTPClient = newHTTPClient(cfg.Timeout)

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: cfg.Endpoint,
	}, nil
}

// openAIBaseURL appends /v1 unless the endpoint already ends with it.
func openAIBaseURL(endpoint string) string {
	if strings.HasSuffix(endpoint, OpenAIBasePath) {
		return endpoint
	}
	return endpoint + OpenAIBasePath
}

// openAITemperature keeps an explicit zero on the wire. go-openai omits a
// zero temperature, and servers then apply their own default.
func openAITemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Chat sends one chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: openAITemperature(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}

	apperrors.LogInferenceRequest(c.Name(), c.endpoint, req.Model, len(req.User))
	startTime := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{
				Provider:   c.Name(),
				StatusCode: apiErr.HTTPStatusCode,
				Message:    apiErr.Message,
			}
		}
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	content := resp.Choices[0].Message.Content

	apperrors.LogInferenceResponse(c.Name(), 200, len(content), time.Since(startTime))
	return content, nil
}
