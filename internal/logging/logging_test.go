package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"trade-journal/internal/models"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if ValidLevel("loud") || !ValidLevel("Warn") {
		t.Error("ValidLevel mismatch")
	}
}

func TestConsoleOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "warn", Console: true, Out: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "journal.log")
	logger := NewLoggerWithConfig(LogConfig{Level: "info", File: true, FilePath: path, MaxSize: 1})

	LogDecision(WithEntry(logger, "e1"), "e1", models.Buy(2), nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, want := range []string{`"event":"decision"`, `"kind":"BUY"`, `"risk_percent":2`, "Enter BUY with 2% risk"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %s: %s", want, data)
		}
	}
}

func TestScopedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := WithOperation(WithEntry(zerolog.New(&buf), "01HX"), "evaluate")
	logger.Info().Msg("scoped")

	out := buf.String()
	for _, want := range []string{`"entry_id":"01HX"`, `"operation":"evaluate"`, `"message":"scoped"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}
