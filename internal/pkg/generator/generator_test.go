package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/commitollama/commitollama/internal/pkg/ai"
	"github.com/commitollama/commitollama/internal/pkg/config"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient is a mock implementation of ai.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Name() string {
	return "mock"
}

func testSettings() config.Settings {
	return config.Settings{
		Provider:           "ollama",
		Endpoint:           config.DefaultEndpoint,
		ModelName:          config.DefaultModel,
		CommitEmojis:       config.DefaultCommitEmojis(),
		SummaryTemperature: 0.8,
		CommitTemperature:  0.8,
	}
}

func TestSummarize(t *testing.T) {
	client := new(MockClient)
	diff := "diff --git a/main.go b/main.go\n+func main() {}\n"

	client.On("Chat", mock.Anything, ai.ChatRequest{
		Model:       config.DefaultModel,
		System:      DefaultSummaryPrompt,
		User:        "Here is the `git diff` output: " + diff,
		Temperature: 0.8,
	}).Return("\n\n   Adds an empty main function.  \n  ", nil).Once()

	summary, err := New(client).Summarize(context.Background(), diff, testSettings())

	require.NoError(t, err)
	assert.Equal(t, "Adds an empty main function.\n", summary)
	client.AssertExpectations(t)
}

func TestSummarize_CustomPrompt(t *testing.T) {
	client := new(MockClient)
	settings := testSettings()
	settings.SummaryPrompt = "Summarize like a pirate."
	settings.SummaryTemperature = 0.1

	client.On("Chat", mock.Anything, mock.MatchedBy(func(req ai.ChatRequest) bool {
		return req.System == "Summarize like a pirate." && req.Temperature == 0.1 && req.MaxTokens == 0
	})).Return("Arr, a new function.", nil).Once()

	summary, err := New(client).Summarize(context.Background(), "+x", settings)

	require.NoError(t, err)
	assert.Equal(t, "Arr, a new function.", summary)
	client.AssertExpectations(t)
}

func TestSummarize_TransportFailure(t *testing.T) {
	client := new(MockClient)
	client.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused"))

	_, err := New(client).Summarize(context.Background(), "+x", testSettings())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInferenceUnreachable))
	assert.Equal(t, apperrors.MsgInferenceUnreachable, apperrors.GetAppError(err).Message)
}

func TestCompose(t *testing.T) {
	client := new(MockClient)
	summaries := []string{"Adds a parser.", "Updates the readme."}

	client.On("Chat", mock.Anything, ai.ChatRequest{
		Model:       config.DefaultModel,
		System:      DefaultCommitPrompt,
		User:        "Here are the summaries changes: Adds a parser., Updates the readme.",
		Temperature: 0.8,
		MaxTokens:   CommitResponseTokens,
	}).Return("  \"feat(parser): add `Parse` helper\"\n", nil).Once()

	msg, err := New(client).Compose(context.Background(), summaries, testSettings())

	require.NoError(t, err)
	assert.Equal(t, "feat(parser): add Parse helper", msg)
	client.AssertExpectations(t)
}

func TestCompose_Decorations(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		emojis    bool
		uppercase bool
		want      string
	}{
		{"emoji", "feat: add new feature", true, false, "✨ feat: add new feature"},
		{"uppercase", "fix: message body", false, true, "FIX: message body"},
		{"both", "fix: message body", true, true, "🔧 fix: message body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockClient)
			client.On("Chat", mock.Anything, mock.Anything).Return(tt.reply, nil)

			settings := testSettings()
			settings.UseEmojis = tt.emojis
			settings.UseUppercase = tt.uppercase
			settings.CommitEmojis = config.NormalizeEmojis(nil, tt.uppercase)

			msg, err := New(client).Compose(context.Background(), []string{"s"}, settings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestCompose_TransportFailure(t *testing.T) {
	client := new(MockClient)
	client.On("Chat", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	_, err := New(client).Compose(context.Background(), []string{"s"}, testSettings())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrGenerationFailed))
	assert.Equal(t, apperrors.MsgGenerationFailed, apperrors.GetAppError(err).Message)
}

func TestCompose_ModelNotFoundHint(t *testing.T) {
	client := new(MockClient)
	client.On("Chat", mock.Anything, mock.Anything).Return("", &ai.APIError{
		Provider:   "ollama",
		StatusCode: http.StatusNotFound,
		Message:    "model not found",
	})

	_, err := New(client).Compose(context.Background(), []string{"s"}, testSettings())

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.MsgGenerationFailed, appErr.Message)
	assert.Contains(t, appErr.Suggestion, "ollama pull llama3:latest")
}

// TestGenerator_OllamaRoundTrip drives both calls through a fake Ollama server.
func TestGenerator_OllamaRoundTrip(t *testing.T) {
	var requests []ai.OllamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ai.OllamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, req)

		reply := "Adds a health check endpoint."
		if strings.HasPrefix(req.Messages[1].Content, commitUserPrefix) {
			reply = "feat(api): add health check"
		}
		_ = json.NewEncoder(w).Encode(ai.OllamaChatResponse{
			Message: ai.OllamaMessage{Role: "assistant", Content: reply},
			Done:    true,
		})
	}))
	defer server.Close()

	settings := testSettings()
	settings.Endpoint = server.URL
	settings.Timeout = 5 * time.Second

	client, err := ai.NewClient(settings)
	require.NoError(t, err)
	gen := New(client)

	summary, err := gen.Summarize(context.Background(), "+func health() {}", settings)
	require.NoError(t, err)
	msg, err := gen.Compose(context.Background(), []string{summary}, settings)
	require.NoError(t, err)

	assert.Equal(t, "feat(api): add health check", msg)
	require.Len(t, requests, 2)
	assert.Equal(t, 0, requests[0].Options.NumPredict)
	assert.Equal(t, CommitResponseTokens, requests[1].Options.NumPredict)
	assert.Equal(t, "Here are the summaries changes: Adds a health check endpoint.", requests[1].Messages[1].Content)
}

func TestGenerator_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	settings := testSettings()
	settings.Endpoint = endpoint
	client, err := ai.NewClient(settings)
	require.NoError(t, err)

	_, err = New(client).Summarize(context.Background(), "+x", settings)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInferenceUnreachable))
}
