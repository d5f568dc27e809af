// Package config provides configuration loading from dbt-lineage.toml files
// and XDG path resolution.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/pelletier/go-toml/v2"
)

// Loader implements the ConfigLoader port for TOML configuration files.
type Loader struct {
	globalConfigPath string // Path to global config (~/.config/dbt-lineage/config.toml)
}

// NewLoader creates a new config loader. A nil paths resolver falls back to
// the user's home directory for the global config location.
func NewLoader(paths *XDGPathResolver) *Loader {
	if paths != nil {
		return &Loader{globalConfigPath: paths.Paths().ConfigFile()}
	}
	homeDir, _ := os.UserHomeDir()
	globalPath := ""
	if homeDir != "" {
		globalPath = filepath.Join(homeDir, ".config", "dbt-lineage", "config.toml")
	}
	return &Loader{globalConfigPath: globalPath}
}

// tomlConfig represents the structure of dbt-lineage.toml.
type tomlConfig struct {
	Output  outputSection  `toml:"output"`
	Include includeSection `toml:"include"`
	Layout  layoutSection  `toml:"layout"`
	Build   buildSection   `toml:"build"`
}

type outputSection struct {
	Default  string `toml:"default"`
	Manifest string `toml:"manifest"`
}

type includeSection struct {
	Tests     *bool `toml:"tests"`
	Seeds     *bool `toml:"seeds"`
	Snapshots *bool `toml:"snapshots"`
	Exposures *bool `toml:"exposures"`
}

type layoutSection struct {
	NodeWidth  *float64 `toml:"node_width"`
	NodeHeight *float64 `toml:"node_height"`
	XSpacing   *float64 `toml:"x_spacing"`
	YSpacing   *float64 `toml:"y_spacing"`
	MaxSweeps  *int     `toml:"max_sweeps"`
}

type buildSection struct {
	Parallel   *bool `toml:"parallel"`
	MaxWorkers *int  `toml:"max_workers"`
}

// LoadConfig reads dbt-lineage.toml and applies defaults. It reads both the
// global XDG config and the project-local config, with project-local
// values overriding global ones.
func (l *Loader) LoadConfig(ctx context.Context, projectRoot string) (*entities.ToolConfig, error) {
	config := entities.DefaultToolConfig()

	if l.globalConfigPath != "" {
		if _, err := os.Stat(l.globalConfigPath); err == nil {
			if err := l.loadFromFile(l.globalConfigPath, config); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	projectConfigPath := filepath.Join(projectRoot, "dbt-lineage.toml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := l.loadFromFile(projectConfigPath, config); err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	return config, nil
}

// loadFromFile loads configuration from a TOML file into config.
func (l *Loader) loadFromFile(path string, config *entities.ToolConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	if tc.Output.Default != "" {
		config.DefaultOutput = tc.Output.Default
	}
	if tc.Output.Manifest != "" {
		config.ManifestPath = tc.Output.Manifest
	}

	if tc.Include.Tests != nil {
		config.IncludeTests = *tc.Include.Tests
	}
	if tc.Include.Seeds != nil {
		config.IncludeSeeds = *tc.Include.Seeds
	}
	if tc.Include.Snapshots != nil {
		config.IncludeSnapshots = *tc.Include.Snapshots
	}
	if tc.Include.Exposures != nil {
		config.IncludeExposures = *tc.Include.Exposures
	}

	if tc.Layout.NodeWidth != nil {
		config.LayoutNodeWidth = *tc.Layout.NodeWidth
	}
	if tc.Layout.NodeHeight != nil {
		config.LayoutNodeHeight = *tc.Layout.NodeHeight
	}
	if tc.Layout.XSpacing != nil {
		config.LayoutXSpacing = *tc.Layout.XSpacing
	}
	if tc.Layout.YSpacing != nil {
		config.LayoutYSpacing = *tc.Layout.YSpacing
	}
	if tc.Layout.MaxSweeps != nil {
		config.LayoutMaxSweeps = *tc.Layout.MaxSweeps
	}

	if tc.Build.Parallel != nil {
		config.Parallel = *tc.Build.Parallel
	}
	if tc.Build.MaxWorkers != nil {
		config.MaxWorkers = *tc.Build.MaxWorkers
	}

	return nil
}

// SaveConfig persists configuration to dbt-lineage.toml in projectRoot.
func (l *Loader) SaveConfig(ctx context.Context, projectRoot string, config *entities.ToolConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	tc := tomlConfig{
		Output: outputSection{
			Default:  config.DefaultOutput,
			Manifest: config.ManifestPath,
		},
		Include: includeSection{
			Tests:     &config.IncludeTests,
			Seeds:     &config.IncludeSeeds,
			Snapshots: &config.IncludeSnapshots,
			Exposures: &config.IncludeExposures,
		},
		Layout: layoutSection{
			NodeWidth:  &config.LayoutNodeWidth,
			NodeHeight: &config.LayoutNodeHeight,
			XSpacing:   &config.LayoutXSpacing,
			YSpacing:   &config.LayoutYSpacing,
			MaxSweeps:  &config.LayoutMaxSweeps,
		},
		Build: buildSection{
			Parallel:   &config.Parallel,
			MaxWorkers: &config.MaxWorkers,
		},
	}

	if err := os.MkdirAll(projectRoot, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	configPath := filepath.Join(projectRoot, "dbt-lineage.toml")
	data, err := toml.Marshal(tc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := "# dbt-lineage tool configuration\n\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
