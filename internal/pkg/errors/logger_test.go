package errors

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug)

	logger.Error("error message")
	logger.Warn("warn message")
	logger.Info("info message")
	logger.Debug("debug message")

	output := buf.String()

	for _, want := range []string{"ERROR", "WARN", "INFO", "DEBUG"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %s", want)
		}
	}
}

func TestLogger_Threshold(t *testing.T) {
	tests := []struct {
		level   LogLevel
		present []string
		absent  []string
	}{
		{LogLevelError, []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{LogLevelWarn, []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{LogLevelInfo, []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Error("e")
			logger.Warn("w")
			logger.Info("i")
			logger.Debug("d")

			output := buf.String()
			for _, want := range tt.present {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %s: %q", want, output)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(output, unwanted) {
					t.Errorf("output should not contain %s: %q", unwanted, output)
				}
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelError)

	logger.Info("hidden")
	logger.SetLevel(LogLevelInfo)
	logger.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if logger.Level() != LogLevelInfo {
		t.Errorf("Level() = %v, want INFO", logger.Level())
	}
}

func TestLogger_MasksKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelWarn)

	logger.Error("bad key sk-abcdefghijklmnopqrstuvwxyz")

	if strings.Contains(buf.String(), "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("key leaked into log output: %q", buf.String())
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Debug("summary ready")
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("got %d lines, want 20", got)
	}
}

func TestLogger_LogInferenceRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug)

	logger.LogInferenceRequest("ollama", "http://127.0.0.1:11434", "llama3:latest", 1000)

	output := buf.String()
	for _, want := range []string{"provider=ollama", "model=llama3:latest", "prompt_chars=1000"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %s: %q", want, output)
		}
	}
}

func TestLogger_LogInferenceResponse(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelDebug)

	logger.LogInferenceResponse("ollama", 200, 500, 100*time.Millisecond)

	output := buf.String()
	for _, want := range []string{"status=200", "reply_chars=500", "took=100ms"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %s: %q", want, output)
		}
	}
}

func TestLogger_InferenceSilentBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogLevelInfo)

	logger.LogInferenceRequest("ollama", "http://127.0.0.1:11434", "llama3:latest", 10)
	logger.LogInferenceResponse("ollama", 200, 10, time.Millisecond)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"error", LogLevelError, false},
		{"WARN", LogLevelWarn, false},
		{"warning", LogLevelWarn, false},
		{"", LogLevelWarn, false},
		{" Info ", LogLevelInfo, false},
		{"debug", LogLevelDebug, false},
		{"trace", DefaultLogLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short key", "abc", "****"},
		{"four chars", "abcd", "****"},
		{"normal key", "sk-1234567890abcdef", "***************cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.input); got != tt.expected {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetVerbose(t *testing.T) {
	original := defaultLogger.Level()
	defer SetLevel(original)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("IsVerbose() should return true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("IsVerbose() should return false after SetVerbose(false)")
	}

	SetLevel(LogLevelDebug)
	if !IsVerbose() {
		t.Error("IsVerbose() should return true at debug level")
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelError, "ERROR"},
		{LogLevelWarn, "WARN"},
		{LogLevelInfo, "INFO"},
		{LogLevelDebug, "DEBUG"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}
