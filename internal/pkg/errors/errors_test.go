package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorCode_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		code     ErrorCode
		expected int
	}{
		{"NoStagedChanges", ErrNoStagedChanges, 1},
		{"InvalidConfig", ErrInvalidConfig, 1},
		{"GitCommandFailed", ErrGitCommandFailed, 2},
		{"FileSystemError", ErrFileSystemError, 2},
		{"InferenceUnreachable", ErrInferenceUnreachable, 3},
		{"GenerationFailed", ErrGenerationFailed, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewEmptyChangeSetError(),
			expected: MsgEmptyChangeSet,
		},
		{
			name: "with cause",
			err: &AppError{
				Code:    ErrGitCommandFailed,
				Message: "git command failed",
				Cause:   errors.New("exit status 1"),
			},
			expected: "git command failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrGitCommandFailed, "git failed").WithContext("output", "fatal")

	if err.Context["output"] != "fatal" {
		t.Errorf("Context[output] = %v, want fatal", err.Context["output"])
	}
}

func TestAppError_WithSuggestion(t *testing.T) {
	err := New(ErrInvalidConfig, "bad").WithSuggestion("fix it")

	if err.Suggestion != "fix it" {
		t.Errorf("Suggestion = %q, want %q", err.Suggestion, "fix it")
	}
}

func TestInferenceErrors_FixedMessages(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")

	connErr := NewConnectionError(cause)
	if connErr.Message != "unable to connect to inference server; verify it is running" {
		t.Errorf("unexpected connection message %q", connErr.Message)
	}
	if !errors.Is(connErr, cause) {
		t.Error("connection error should unwrap to its cause")
	}

	genErr := NewGenerationError(cause)
	if genErr.Message != "unable to generate commit message" {
		t.Errorf("unexpected generation message %q", genErr.Message)
	}
	if genErr.Code != ErrGenerationFailed {
		t.Errorf("Code = %v, want %v", genErr.Code, ErrGenerationFailed)
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("summarize: %w", NewConnectionError(nil))

	if !HasCode(wrapped, ErrInferenceUnreachable) {
		t.Error("HasCode should find the code through wrapping")
	}
	if HasCode(wrapped, ErrGenerationFailed) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), ErrGenerationFailed) {
		t.Error("HasCode should be false for plain errors")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"empty change set", NewEmptyChangeSetError(), 1},
		{"git error", NewGitError(errors.New("boom"), ""), 2},
		{"generation error", NewGenerationError(nil), 3},
		{"wrapped connection error", fmt.Errorf("x: %w", NewConnectionError(nil)), 3},
		{"regular error", errors.New("regular"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMarkReported(t *testing.T) {
	if MarkReported(nil) != nil {
		t.Error("MarkReported(nil) should be nil")
	}

	appErr := NewGenerationError(nil)
	if IsReported(appErr) {
		t.Error("fresh error should not be reported")
	}
	got := MarkReported(appErr)
	if !IsReported(got) {
		t.Error("error should be reported after MarkReported")
	}
	if GetExitCode(got) != 3 {
		t.Errorf("exit code changed to %d", GetExitCode(got))
	}

	plain := MarkReported(errors.New("plain"))
	if !IsReported(plain) {
		t.Error("plain errors should be reportable too")
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: []string{},
		},
		{
			name:     "app error with suggestion",
			err:      NewEmptyChangeSetError(),
			contains: []string{"Error:", MsgEmptyChangeSet, "git add"},
		},
		{
			name:     "regular error",
			err:      errors.New("regular error"),
			contains: []string{"Error:", "regular error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.err)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("FormatError() should contain %q, got %q", s, result)
				}
			}
			if strings.Contains(result, "\n") {
				t.Errorf("FormatError() should be a single line, got %q", result)
			}
		})
	}
}

func TestFormatError_MasksKeys(t *testing.T) {
	err := errors.New("auth failed for sk-abcdefghijklmnopqrstuvwxyz\nmore detail")

	result := FormatError(err)

	if strings.Contains(result, "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("key leaked: %q", result)
	}
	if strings.Contains(result, "more detail") {
		t.Errorf("only the first line should be shown: %q", result)
	}
}

func TestFormatErrorVerbose(t *testing.T) {
	err := NewGitError(errors.New("exit status 128"), "fatal: not a git repository")

	result := FormatErrorVerbose(err)

	for _, want := range []string{"GitCommandFailed", "exit status 128", "not a git repository"} {
		if !strings.Contains(result, want) {
			t.Errorf("FormatErrorVerbose() missing %q in %q", want, result)
		}
	}
}
