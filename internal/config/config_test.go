package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setTempHome points HOME at a fresh directory so the loader never picks up
// the developer's real config file.
func setTempHome(t *testing.T) string {
	t.Helper()
	tmpHome := t.TempDir()

	origHome := os.Getenv("HOME")
	t.Cleanup(func() {
		os.Setenv("HOME", origHome)
	})
	os.Setenv("HOME", tmpHome)

	return tmpHome
}

func TestDefaultConfig(t *testing.T) {
	setTempHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Color != ColorAuto {
		t.Errorf("Expected Color=%s, got %s", ColorAuto, cfg.Color)
	}
	if cfg.ContextLines != DefaultContextLines {
		t.Errorf("Expected ContextLines=%d, got %d", DefaultContextLines, cfg.ContextLines)
	}
	if !cfg.TrimDiffs {
		t.Errorf("Expected TrimDiffs=true by default")
	}
	if cfg.Debug {
		t.Errorf("Expected Debug=false by default")
	}
	if cfg.Root == "" {
		t.Errorf("Expected Root to default to the working directory")
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	tmpHome := setTempHome(t)

	configDir := filepath.Join(tmpHome, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}

	content := "color: never\ncontext_lines: 5\ndebug: true\nlog_file: /tmp/patchkit.log\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Color != ColorNever {
		t.Errorf("Expected Color=%s, got %s", ColorNever, cfg.Color)
	}
	if cfg.ContextLines != 5 {
		t.Errorf("Expected ContextLines=5, got %d", cfg.ContextLines)
	}
	if !cfg.Debug {
		t.Errorf("Expected Debug=true")
	}
	if cfg.LogFile != "/tmp/patchkit.log" {
		t.Errorf("Expected LogFile=/tmp/patchkit.log, got %s", cfg.LogFile)
	}
}

func TestLoadRejectsInvalidColorMode(t *testing.T) {
	tmpHome := setTempHome(t)

	configDir := filepath.Join(tmpHome, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("color: sometimes\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Errorf("expected error for invalid color mode")
	}
}
