package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knotworks/forcemap/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, configFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	writeConfig(t, `
width = 1200
height = 900
engine = "barneshut"
attrs = ["team", "tier"]

[simulation]
iterations = 200
damping = 0.85
`)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Width != 1200 {
		t.Errorf("width = %g, want 1200", cfg.Width)
	}
	if cfg.Engine != "barneshut" {
		t.Errorf("engine = %q, want barneshut", cfg.Engine)
	}
	if len(cfg.Attrs) != 2 || cfg.Attrs[0] != "team" {
		t.Errorf("attrs = %v, want [team tier]", cfg.Attrs)
	}
	if cfg.Simulation.Iterations != 200 {
		t.Errorf("iterations = %d, want 200", cfg.Simulation.Iterations)
	}
	if cfg.Simulation.Damping != 0.85 {
		t.Errorf("damping = %g, want 0.85", cfg.Simulation.Damping)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() with no file should not error, got: %v", err)
	}
	if cfg.Width != 0 || cfg.Engine != "" {
		t.Errorf("missing config should be zero-valued, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	writeConfig(t, `width = "not a number"`)

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig() should report malformed config")
	}
}

func TestConfigApply(t *testing.T) {
	cfg := Config{
		Width:  1000,
		Engine: "barneshut",
		Simulation: SimulationConfig{
			Iterations: 300,
		},
	}

	// Flags already set on the command line win over config.
	opts := pipeline.Options{Width: 640, Iterations: 50}
	cfg.apply(&opts)

	if opts.Width != 640 {
		t.Errorf("width = %g, flag value should win over config", opts.Width)
	}
	if opts.Iterations != 50 {
		t.Errorf("iterations = %d, flag value should win over config", opts.Iterations)
	}
	if opts.Engine != "barneshut" {
		t.Errorf("engine = %q, config should fill unset fields", opts.Engine)
	}
}
