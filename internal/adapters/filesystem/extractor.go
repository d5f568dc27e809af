package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Extractor is the concrete SQLYAMLExtractor (C2).
type Extractor struct{}

// NewExtractor returns a ready-to-use Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

var (
	lineCommentRe  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	refRe          = regexp.MustCompile(`ref\(\s*['"]([^'"]+)['"](\s*,\s*['"]([^'"]+)['"])?\s*\)`)
	sourceRe       = regexp.MustCompile(`source\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]\s*\)`)
)

// Extract implements SQLYAMLExtractor.
func (e *Extractor) Extract(ctx context.Context, projectRoot string, dirs []string) (usecases.ExtractResult, error) {
	result := usecases.ExtractResult{ContentHashes: map[string]string{}}
	nodesByID := map[string]*entities.Node{}

	for _, dir := range dirs {
		root := filepath.Join(projectRoot, dir)
		_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info == nil || info.IsDir() {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rel, relErr := filepath.Rel(projectRoot, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			switch strings.ToLower(filepath.Ext(path)) {
			case ".sql":
				e.extractSQLFile(path, rel, nodesByID, &result)
			case ".yml", ".yaml":
				e.extractYAMLFile(path, nodesByID, &result)
			}
			return nil
		})
	}

	for _, n := range nodesByID {
		result.Nodes = append(result.Nodes, n)
	}
	return result, nil
}

func (e *Extractor) extractSQLFile(path, relPath string, nodesByID map[string]*entities.Node, result *usecases.ExtractResult) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return // per-file read failures are skipped, never fatal (C2 contract)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	kind, idPrefix := kindForPath(relPath)
	id := idPrefix + "." + stem

	node, ok := nodesByID[id]
	if !ok {
		node = entities.NewNode(id, stem, kind)
		node.Path = relPath
		nodesByID[id] = node
	}

	sum := sha256.Sum256(raw)
	result.ContentHashes[id] = hex.EncodeToString(sum[:])

	clean := stripSQLComments(string(raw))
	for _, m := range refRe.FindAllStringSubmatch(clean, -1) {
		// ref('pkg', 'model') names the model in its second argument.
		name := m[1]
		if m[3] != "" {
			name = m[3]
		}
		target := "model." + name
		result.Edges = append(result.Edges, entities.Edge{FromID: target, ToID: id, Kind: entities.EdgeRef})
	}
	for _, m := range sourceRe.FindAllStringSubmatch(clean, -1) {
		target := "source." + m[1] + "." + m[2]
		result.Edges = append(result.Edges, entities.Edge{FromID: target, ToID: id, Kind: entities.EdgeSource})
	}
}

// kindForPath classifies a discovered SQL file by its containing directory,
// falling back to Model when no seeds/snapshots segment is present.
func kindForPath(relPath string) (entities.NodeKind, string) {
	segs := strings.Split(relPath, "/")
	for _, s := range segs {
		switch s {
		case "seeds":
			return entities.KindSeed, "seed"
		case "snapshots":
			return entities.KindSnapshot, "snapshot"
		}
	}
	return entities.KindModel, "model"
}

func stripSQLComments(sql string) string {
	sql = blockCommentRe.ReplaceAllString(sql, "")
	sql = lineCommentRe.ReplaceAllString(sql, "")
	return sql
}

// dbtSchemaYAML mirrors a schema.yml's optional top-level sections.
type dbtSchemaYAML struct {
	Sources []struct {
		Name   string `yaml:"name"`
		Tables []struct {
			Name    string `yaml:"name"`
			Columns []struct {
				Name        string `yaml:"name"`
				Description string `yaml:"description"`
			} `yaml:"columns"`
		} `yaml:"tables"`
	} `yaml:"sources"`
	Models []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Tags        []string `yaml:"tags"`
		Columns     []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
		} `yaml:"columns"`
	} `yaml:"models"`
	Exposures []struct {
		Name      string   `yaml:"name"`
		DependsOn []string `yaml:"depends_on"`
	} `yaml:"exposures"`
}

func (e *Extractor) extractYAMLFile(path string, nodesByID map[string]*entities.Node, result *usecases.ExtractResult) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var schema dbtSchemaYAML
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return // malformed YAML is skipped, never fatal (C2 contract)
	}

	for _, src := range schema.Sources {
		for _, tbl := range src.Tables {
			id := "source." + src.Name + "." + tbl.Name
			node, ok := nodesByID[id]
			if !ok {
				node = entities.NewNode(id, tbl.Name, entities.KindSource)
				nodesByID[id] = node
			}
			for _, col := range tbl.Columns {
				node.Columns = append(node.Columns, entities.Column{Name: col.Name, Description: col.Description})
			}
		}
	}

	for _, m := range schema.Models {
		id := "model." + m.Name
		node, ok := nodesByID[id]
		if !ok {
			node = entities.NewNode(id, m.Name, entities.KindModel)
			nodesByID[id] = node
		}
		if m.Description != "" {
			node.Description = m.Description
		}
		node.Tags = append(node.Tags, m.Tags...)
		for _, col := range m.Columns {
			node.Columns = append(node.Columns, entities.Column{Name: col.Name, Description: col.Description})
		}
	}

	for _, exp := range schema.Exposures {
		id := "exposure." + exp.Name
		node, ok := nodesByID[id]
		if !ok {
			node = entities.NewNode(id, exp.Name, entities.KindExposure)
			nodesByID[id] = node
		}
		for _, dep := range exp.DependsOn {
			result.Edges = append(result.Edges, entities.Edge{FromID: refTargetFromDependsOn(dep), ToID: id, Kind: entities.EdgeRef})
		}
	}
}

// refTargetFromDependsOn extracts the node id a `depends_on` entry names.
// dbt writes these as `ref('model_name')` or `source('src', 'tbl')` strings.
func refTargetFromDependsOn(dep string) string {
	if m := refRe.FindStringSubmatch(dep); m != nil {
		if m[3] != "" {
			return "model." + m[3]
		}
		return "model." + m[1]
	}
	if m := sourceRe.FindStringSubmatch(dep); m != nil {
		return "source." + m[1] + "." + m[2]
	}
	return "model." + dep
}
