package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures log output in memory for assertions.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger creates a trace-level JSON logger writing to a buffer.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	buf := &bytes.Buffer{}
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(oldLevel)
	})

	logger := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns the captured log output as a string
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Lines returns the captured log output as individual lines
func (tl *TestLogger) Lines() []string {
	output := strings.TrimSpace(tl.Output())
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// Records decodes every captured JSON line. Lines that are not JSON are
// skipped.
func (tl *TestLogger) Records() []map[string]any {
	records := []map[string]any{}
	for _, line := range tl.Lines() {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records
}

// Find returns the last record logged with message, or nil.
func (tl *TestLogger) Find(message string) map[string]any {
	var found map[string]any
	for _, rec := range tl.Records() {
		if rec[zerolog.MessageFieldName] == message {
			found = rec
		}
	}
	return found
}

// AssertField asserts that the last record logged with message carries
// key with a value printing as want, as in AssertField(t, "Tables
// reconciled", "matched", 2).
func (tl *TestLogger) AssertField(t testing.TB, message, key string, want any) {
	t.Helper()
	rec := tl.Find(message)
	if rec == nil {
		t.Errorf("No log record with message %q\nOutput:\n%s", message, tl.Output())
		return
	}
	got, ok := rec[key]
	if !ok {
		t.Errorf("Log record %q has no field %q: %v", message, key, rec)
		return
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Log record %q field %q = %v, want %v", message, key, got, want)
	}
}

// AssertContains asserts that the log contains the given string
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("Log output does not contain %q\nOutput:\n%s", substr, tl.Output())
	}
}

// NewNopLogger creates a logger that discards all output
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
