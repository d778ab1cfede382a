// Package ai provides clients for local language-model inference servers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one HTTP round trip when the caller sets none.
const DefaultTimeout = 120 * time.Second

// ChatRequest is a single system + user exchange.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	// MaxTokens caps the response length. Zero leaves the server default.
	MaxTokens int
}

// Client sends one chat request and returns the assistant's reply text.
// Implementations never retry and never stream.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Name() string
}

// ClientConfig contains the transport settings shared by all clients.
type ClientConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// APIError is a non-success HTTP status returned by an inference server.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, strings.TrimSpace(e.Message))
}

// validateEndpoint requires an absolute http(s) URL.
func validateEndpoint(endpoint string) error {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return nil
	}
	return errors.New("endpoint must start with http:// or https://")
}

// newHTTPClient creates a pooled client; the timeout is the only deadline
// applied to an inference call.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
