package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, "warn")

	l.Info().Msg("hidden")
	l.Warn().Str("key", "value").Msg("shown")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, out)
	}
	if entry["message"] != "shown" || entry["key"] != "value" || entry["level"] != "warn" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewConsoleLogger_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, "debug")
	l.Debug().Msg("plain")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("console output to a non-terminal should not be colored: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "plain") {
		t.Errorf("missing message in %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"debug", true},
		{"INFO", true},
		{"warn", true},
		{"error", true},
		{"trace", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidLevel(tt.in); got != tt.valid {
			t.Errorf("ValidLevel(%q) = %v, want %v", tt.in, got, tt.valid)
		}
	}
	if parseLevel("bogus").String() != "info" {
		t.Errorf("parseLevel(bogus) = %s, want info", parseLevel("bogus"))
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enr-cli.log")
	if err := Init("info", true, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer Init("warn", false, "")

	Record.Info().Uint64("seq", 3).Msg("record built")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log file line is not JSON: %v", err)
	}
	if entry["component"] != "record" {
		t.Errorf("component = %v, want record", entry["component"])
	}
}
