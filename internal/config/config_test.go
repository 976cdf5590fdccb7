package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"LocalBoard/internal/apperr"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Camera.MinZoom != 0.1 || cfg.Camera.MaxZoom != 10 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
}

func TestLoadKeepsDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("BOARD_PORT", "9123")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
app:
  log_level: debug
  http:
    port: ${BOARD_PORT}
alignment:
  snap_threshold: 7
  colour: blue
tools:
  style:
    stroke: "#ff0000"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.HTTP.Port != 9123 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.Alignment.SnapThreshold != 7 || cfg.Alignment.StrongSnapThreshold != 10 || !cfg.Alignment.Enabled {
		t.Errorf("alignment = %+v", cfg.Alignment)
	}
	if cfg.Tools.Style.Stroke != "#ff0000" || cfg.Tools.MinArea != 4 {
		t.Errorf("tools = %+v", cfg.Tools)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"negative threshold": "alignment:\n  snap_threshold: -1\n",
		"bad modifier":       "alignment:\n  disable_modifier: meta\n",
		"zoom range":         "camera:\n  min_zoom: 5\n  max_zoom: 2\n",
		"port":               "app:\n  http:\n    port: 70000\n",
		"discovery":          "discovery:\n  enabled: true\n  instance: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, body)
			if _, err := LoadFile(path); !errors.Is(err, apperr.ErrInvalidConfig) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	for _, name := range []string{"", filepath.Join(t.TempDir(), "nope.yaml")} {
		cfg, err := LoadFile(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if cfg.Alignment != NewDefaultConfig().Alignment {
			t.Errorf("%q: not defaults", name)
		}
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "alignment:\n  snap_threshold: 3\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ready := make(chan struct{})
	go func() {
		done <- watch(ctx, path, logger, func() { close(ready) }, func(c *Config) { got <- c })
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watch returned early: %v", err)
	}
	// The invalid file is rejected, so the first reload seen is the valid one.
	writeFile(t, path, "alignment:\n  snap_threshold: -4\n")
	writeFile(t, path, "alignment:\n  snap_threshold: 9\n")

	select {
	case cfg := <-got:
		if cfg.Alignment.SnapThreshold != 9 {
			t.Errorf("reloaded threshold = %v", cfg.Alignment.SnapThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
}
