package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DataDir == "" {
		t.Error("Expected a default data directory")
	}
	if cfg.ScratchDir != filepath.Join(cfg.DataDir, "scratch") {
		t.Errorf("Expected scratch dir under the data dir, got %s", cfg.ScratchDir)
	}
	if cfg.InMemory {
		t.Error("Expected persistent mode by default")
	}
	if cfg.DurablePersist {
		t.Error("Expected optimistic persistence by default")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/calendario-test")
	t.Setenv("SCRATCH_DIR", "/tmp/calendario-scratch")
	t.Setenv("IN_MEMORY", "true")
	t.Setenv("PERSIST_MODE", "durable")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.DataDir != "/tmp/calendario-test" {
		t.Errorf("Expected overridden data dir, got %s", cfg.DataDir)
	}
	if cfg.ScratchDir != "/tmp/calendario-scratch" {
		t.Errorf("Expected overridden scratch dir, got %s", cfg.ScratchDir)
	}
	if !cfg.InMemory {
		t.Error("Expected in-memory mode")
	}
	if !cfg.DurablePersist {
		t.Error("Expected durable persistence")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadBadBool(t *testing.T) {
	t.Setenv("IN_MEMORY", "definitely")

	cfg := Load()
	if cfg.InMemory {
		t.Error("Expected an unparseable bool to fall back to the default")
	}
}
