// Package errors provides error types and logging utilities for commitollama.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// User errors (Exit Code 1)
	ErrNoStagedChanges ErrorCode = iota + 100
	ErrInvalidConfig
	ErrInvalidArguments

	// System errors (Exit Code 2)
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrFileSystemError

	// External errors (Exit Code 3)
	ErrInferenceUnreachable ErrorCode = iota + 300
	ErrGenerationFailed
)

// Fixed user-facing messages for the inference failures and the empty change set.
const (
	MsgEmptyChangeSet       = "no changes to commit; stage your changes first"
	MsgInferenceUnreachable = "unable to connect to inference server; verify it is running"
	MsgGenerationFailed     = "unable to generate commit message"
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1 // User errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoStagedChanges:
		return "EmptyChangeSet"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrInferenceUnreachable:
		return "Connection"
	case ErrGenerationFailed:
		return "Generation"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string

	// reported is set once the error has been shown to the user.
	reported bool
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1 // Default to user error
}

// MarkReported records that err has already been shown to the user.
// Errors that are not AppErrors are wrapped so the mark survives.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = Wrap(err, ErrInvalidArguments, "operation failed")
		err = appErr
	}
	appErr.reported = true
	return err
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.reported
}

// Common error constructors with suggestions

// NewEmptyChangeSetError creates an error for an empty set of staged changes.
func NewEmptyChangeSetError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    MsgEmptyChangeSet,
		Suggestion: "Use 'git add <files>' or pass --stage-all",
	}
}

// NewConnectionError creates an error for an unreachable inference server
// during summarization.
func NewConnectionError(err error) *AppError {
	return &AppError{
		Code:       ErrInferenceUnreachable,
		Message:    MsgInferenceUnreachable,
		Cause:      err,
		Suggestion: "Start the server with 'ollama serve' or check custom.endpoint",
	}
}

// NewGenerationError creates an error for a failed commit message composition.
func NewGenerationError(err error) *AppError {
	return &AppError{
		Code:    ErrGenerationFailed,
		Message: MsgGenerationFailed,
		Cause:   err,
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'commitollama config init' to create a valid configuration file",
	}
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewFileSystemError creates an error for file system failures.
func NewFileSystemError(err error, path string) *AppError {
	return &AppError{
		Code:    ErrFileSystemError,
		Message: fmt.Sprintf("cannot access %s", path),
		Cause:   err,
	}
}

// FormatError formats an error as a single notification line.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	appErr := GetAppError(err)
	if appErr == nil {
		return "Error: " + firstLine(SanitizeErrorMessage(err.Error()))
	}

	line := "Error: " + SanitizeErrorMessage(appErr.Message)
	if appErr.Suggestion != "" {
		line += " (" + appErr.Suggestion + ")"
	}
	return line
}

// FormatErrorVerbose formats an error with full details for verbose mode.
// API keys and other sensitive data are automatically masked.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, MaskAPIKey)
}

// apiKeyPattern matches common API key patterns.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`)
