package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	if again := NewLogger("test-component"); again != logger {
		t.Error("Expected NewLogger to return the cached entry for the same component")
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{DisableTimestamp: true},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "snapshot written",
				Data: logrus.Fields{
					"component": "store",
					"key":       "mfe-global-state",
				},
			},
			want: []string{"[INFO]", "store", "snapshot written", "key=mfe-global-state"},
		},
		{
			name:   "simple format hides component",
			config: FormatConfig{DisableTimestamp: true, DisableComponent: true},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "corrupt snapshot discarded",
				Data:    logrus.Fields{"component": "store"},
			},
			want:    []string{"[WARN]", "corrupt snapshot discarded"},
			notWant: []string{"store"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{Config: tt.config}
			out, err := f.Format(tt.entry)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			s := string(out)
			for _, w := range tt.want {
				if !strings.Contains(s, w) {
					t.Errorf("expected output to contain %q, got: %s", w, s)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(s, nw) {
					t.Errorf("expected output to not contain %q, got: %s", nw, s)
				}
			}
		})
	}
}

func TestFieldsAreSorted(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	out, err := f.Format(&logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "m",
		Data:    logrus.Fields{"b": 2, "a": 1, "c": 3},
	})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(string(out), "m a=1 b=2 c=3\n") {
		t.Errorf("unexpected field order: %q", out)
	}
}

func TestNewWithFileSinkAndJSON(t *testing.T) {
	t.Setenv("SESSIONSYNC_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "logs", "bridge.log")

	entry := New("bridge", Config{
		File:   FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	})
	if entry.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected env level override, got %v", entry.Logger.GetLevel())
	}

	entry.WithField("type", "NAVIGATE").Debug("message dropped")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", data, err)
	}
	if line["component"] != "bridge" || line["type"] != "NAVIGATE" {
		t.Errorf("unexpected fields: %v", line)
	}
}

func TestShouldLogToStderr(t *testing.T) {
	if !shouldLogToStderr("always", logrus.InfoLevel) {
		t.Error("always should log to stderr")
	}
	if shouldLogToStderr("never", logrus.DebugLevel) {
		t.Error("never should not log to stderr")
	}
	if !shouldLogToStderr("auto", logrus.DebugLevel) {
		t.Error("auto should log to stderr at debug level")
	}
}
