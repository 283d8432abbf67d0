package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
input:
  paths:
    - deployments/*.json
  workers: 2
  checkedOnly: true
storage:
  dataDirectory: archive
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Settings.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %q", config.Settings.LogLevel)
	}
	if len(config.Input.Paths) != 1 || config.Input.Paths[0] != "deployments/*.json" {
		t.Errorf("Expected one input path, got %v", config.Input.Paths)
	}
	if config.Input.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", config.Input.Workers)
	}
	if !config.Input.CheckedOnly {
		t.Error("Expected checkedOnly to be set")
	}
	if config.Storage.DataDirectory != "archive" {
		t.Errorf("Expected data directory archive, got %q", config.Storage.DataDirectory)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "settings: ["},
		{name: "no input paths", content: "settings:\n  logLevel: info"},
		{name: "bad log level", content: "settings:\n  logLevel: chatty\ninput:\n  paths: [a.json]"},
		{name: "negative workers", content: "input:\n  paths: [a.json]\n  workers: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error loading a missing file")
	}
}

func TestSettings_Level(t *testing.T) {
	tests := []struct {
		logLevel string
		want     slog.Level
		wantErr  bool
	}{
		{logLevel: "", want: slog.LevelInfo},
		{logLevel: "debug", want: slog.LevelDebug},
		{logLevel: "INFO", want: slog.LevelInfo},
		{logLevel: "warn", want: slog.LevelWarn},
		{logLevel: "error", want: slog.LevelError},
		{logLevel: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			got, err := Settings{LogLevel: tt.logLevel}.Level()
			if tt.wantErr {
				if err == nil {
					t.Error("Expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to parse level: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected level %v, got %v", tt.want, got)
			}
		})
	}
}
