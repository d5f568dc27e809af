package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

func TestLoader_LoadConfig_Defaults(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()
	tmpDir := t.TempDir()

	config, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := entities.DefaultToolConfig()
	if config.DefaultOutput != defaults.DefaultOutput {
		t.Errorf("DefaultOutput = %q, want %q", config.DefaultOutput, defaults.DefaultOutput)
	}
	if config.MaxWorkers != defaults.MaxWorkers {
		t.Errorf("MaxWorkers = %d, want %d", config.MaxWorkers, defaults.MaxWorkers)
	}
}

func TestLoader_LoadConfig_FromFile(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()
	tmpDir := t.TempDir()

	configContent := `
[output]
default = "json"
manifest = "target/manifest.json"

[include]
tests = true
seeds = false

[layout]
x_spacing = 6
max_sweeps = 12

[build]
parallel = false
max_workers = 2
`
	configPath := filepath.Join(tmpDir, "dbt-lineage.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.DefaultOutput != "json" {
		t.Errorf("DefaultOutput = %q, want json", config.DefaultOutput)
	}
	if config.ManifestPath != "target/manifest.json" {
		t.Errorf("ManifestPath = %q, want target/manifest.json", config.ManifestPath)
	}
	if !config.IncludeTests {
		t.Error("IncludeTests = false, want true")
	}
	if config.IncludeSeeds {
		t.Error("IncludeSeeds = true, want false")
	}
	if config.LayoutXSpacing != 6 {
		t.Errorf("LayoutXSpacing = %v, want 6", config.LayoutXSpacing)
	}
	if config.LayoutMaxSweeps != 12 {
		t.Errorf("LayoutMaxSweeps = %d, want 12", config.LayoutMaxSweeps)
	}
	if config.Parallel {
		t.Error("Parallel = true, want false")
	}
	if config.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", config.MaxWorkers)
	}
}

func TestLoader_SaveConfig_RoundTrips(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()
	tmpDir := t.TempDir()

	config := entities.DefaultToolConfig()
	config.DefaultOutput = "mermaid"
	config.IncludeExposures = true

	if err := loader.SaveConfig(ctx, tmpDir, config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, "dbt-lineage.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := loader.LoadConfig(ctx, tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DefaultOutput != "mermaid" {
		t.Errorf("DefaultOutput = %q, want mermaid", loaded.DefaultOutput)
	}
	if !loaded.IncludeExposures {
		t.Error("IncludeExposures = false, want true")
	}
}

func TestLoader_SaveConfig_NilConfig(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()
	tmpDir := t.TempDir()

	if err := loader.SaveConfig(ctx, tmpDir, nil); err == nil {
		t.Error("Expected error for nil config")
	}
}
