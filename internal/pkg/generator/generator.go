// Package generator turns diffs into summaries and summaries into commit
// messages using a chat-style inference client.
package generator

import (
	"context"
	"fmt"

	"github.com/commitollama/commitollama/internal/pkg/ai"
	"github.com/commitollama/commitollama/internal/pkg/config"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/message"
)

// DiffRecord is the staged diff of one file.
type DiffRecord struct {
	FilePath string
	DiffText string
}

// Generator performs the summarize and compose inference calls.
// It holds no state between calls and is safe for concurrent use when the
// client is.
type Generator struct {
	client ai.Client
}

// New creates a Generator backed by client.
func New(client ai.Client) *Generator {
	return &Generator{client: client}
}

// Summarize asks for a one-sentence description of diffText. Any transport
// failure is reported as a connection error.
func (g *Generator) Summarize(ctx context.Context, diffText string, settings config.Settings) (string, error) {
	reply, err := g.client.Chat(ctx, ai.ChatRequest{
		Model:       settings.ModelName,
		System:      promptOrDefault(settings.SummaryPrompt, DefaultSummaryPrompt),
		User:        summaryUserMessage(diffText),
		Temperature: settings.SummaryTemperature,
	})
	if err != nil {
		apperrors.Debug("summary request failed: %v", err)
		return "", withModelHint(apperrors.NewConnectionError(err), settings.ModelName, err)
	}
	return normalizeSummary(reply), nil
}

// Compose asks for one conventional-commit message covering summaries and
// post-processes the reply. Any transport failure is reported as a
// generation error.
func (g *Generator) Compose(ctx context.Context, summaries []string, settings config.Settings) (string, error) {
	reply, err := g.client.Chat(ctx, ai.ChatRequest{
		Model:       settings.ModelName,
		System:      promptOrDefault(settings.CommitPrompt, DefaultCommitPrompt),
		User:        commitUserMessage(summaries),
		Temperature: settings.CommitTemperature,
		MaxTokens:   CommitResponseTokens,
	})
	if err != nil {
		apperrors.Debug("commit request failed: %v", err)
		return "", withModelHint(apperrors.NewGenerationError(err), settings.ModelName, err)
	}

	return message.PostProcess(reply, message.Decoration{
		UseEmojis:    settings.UseEmojis,
		UseUppercase: settings.UseUppercase,
		Emojis:       settings.CommitEmojis,
	}), nil
}

// withModelHint replaces the suggestion when the server reports an unknown model.
func withModelHint(appErr *apperrors.AppError, model string, cause error) *apperrors.AppError {
	if ai.IsModelNotFound(cause) {
		appErr.WithSuggestion(fmt.Sprintf("Pull the model with 'ollama pull %s'", model))
	}
	return appErr
}
