package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// ProjectLoader is the concrete ProjectLoader (C1).
type ProjectLoader struct{}

// NewProjectLoader returns a ready-to-use ProjectLoader.
func NewProjectLoader() *ProjectLoader {
	return &ProjectLoader{}
}

// dbtProjectYAML mirrors the subset of dbt_project.yml this tool reads.
// dbt's own keys use hyphens, hence the explicit yaml tags.
type dbtProjectYAML struct {
	Name          string   `yaml:"name"`
	ModelPaths    []string `yaml:"model-paths"`
	SeedPaths     []string `yaml:"seed-paths"`
	SnapshotPaths []string `yaml:"snapshot-paths"`
	AnalysisPaths []string `yaml:"analysis-paths"`
}

// LoadProject implements ProjectLoader.
func (l *ProjectLoader) LoadProject(ctx context.Context, projectRoot string) (*entities.ProjectConfig, error) {
	path := filepath.Join(projectRoot, "dbt_project.yml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &entities.ProjectError{Path: path, Err: err}
	}

	var parsed dbtProjectYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, &entities.ProjectError{Path: path, Err: err}
	}

	if parsed.Name == "" {
		return nil, &entities.ProjectError{Path: path, Err: entities.ErrEmptyName}
	}

	defaults := entities.DefaultProjectConfig()
	cfg := &entities.ProjectConfig{
		Name:          parsed.Name,
		ModelPaths:    orDefault(parsed.ModelPaths, defaults.ModelPaths),
		SeedPaths:     orDefault(parsed.SeedPaths, defaults.SeedPaths),
		SnapshotPaths: orDefault(parsed.SnapshotPaths, defaults.SnapshotPaths),
		AnalysisPaths: orDefault(parsed.AnalysisPaths, defaults.AnalysisPaths),
	}

	return cfg, nil
}

func orDefault(paths, defaults []string) []string {
	if len(paths) == 0 {
		return defaults
	}
	return paths
}
