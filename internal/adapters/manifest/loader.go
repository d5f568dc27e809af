// Package manifest parses dbt's compiled JSON artifacts (manifest.json,
// catalog.json, run_results.json) as an alternative, authoritative node
// and edge source (C3).
package manifest

import (
	"context"
	"encoding/json"
	"os"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// Loader is the concrete ManifestLoader.
type Loader struct{}

// NewLoader returns a ready-to-use Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// dbtManifest mirrors the subset of manifest.json this tool reads. Field
// names follow dbt's own JSON schema, not Go convention, hence the json
// tags on every field.
type dbtManifest struct {
	Nodes   map[string]manifestNode `json:"nodes"`
	Sources map[string]manifestNode `json:"sources"`
	Exposures map[string]manifestExposure `json:"exposures"`
}

type manifestNode struct {
	UniqueID     string                `json:"unique_id"`
	Name         string                `json:"name"`
	ResourceType string                `json:"resource_type"`
	OriginalPath string                `json:"original_file_path"`
	Description  string                `json:"description"`
	Tags         []string              `json:"tags"`
	Columns      map[string]nodeColumn `json:"columns"`
	DependsOn    nodeDependency        `json:"depends_on"`
	Config       nodeConfig            `json:"config"`
}

type nodeColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DataType    string `json:"data_type"`
}

type nodeDependency struct {
	Nodes []string `json:"nodes"`
}

type nodeConfig struct {
	Materialized string `json:"materialized"`
}

type manifestExposure struct {
	UniqueID  string         `json:"unique_id"`
	Name      string         `json:"name"`
	DependsOn nodeDependency `json:"depends_on"`
}

// LoadManifest implements ManifestLoader.
func (l *Loader) LoadManifest(ctx context.Context, manifestPath string) (usecases.ExtractResult, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return usecases.ExtractResult{}, &entities.ManifestMalformedError{Path: manifestPath, Err: err}
	}

	var m dbtManifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return usecases.ExtractResult{}, &entities.ManifestMalformedError{Path: manifestPath, Err: err}
	}

	result := usecases.ExtractResult{Authoritative: true}

	addNode := func(id string, n manifestNode, kind entities.NodeKind) {
		node := entities.NewNode(id, n.Name, kind)
		node.Path = n.OriginalPath
		node.Description = n.Description
		node.Tags = n.Tags
		if mat := materializationFromString(n.Config.Materialized); mat != "" {
			node.Materialization = mat
		}
		for _, c := range n.Columns {
			node.Columns = append(node.Columns, entities.Column{Name: c.Name, Description: c.Description, Type: c.DataType})
		}
		result.Nodes = append(result.Nodes, node)
		for _, dep := range n.DependsOn.Nodes {
			result.Edges = append(result.Edges, entities.Edge{FromID: dep, ToID: id, Kind: entities.EdgeRef})
		}
	}

	for id, n := range m.Nodes {
		kind := resourceKind(n.ResourceType)
		if kind == "" {
			continue
		}
		addNode(id, n, kind)
	}
	for id, n := range m.Sources {
		addNode(id, n, entities.KindSource)
	}
	for id, e := range m.Exposures {
		node := entities.NewNode(id, e.Name, entities.KindExposure)
		result.Nodes = append(result.Nodes, node)
		for _, dep := range e.DependsOn.Nodes {
			result.Edges = append(result.Edges, entities.Edge{FromID: dep, ToID: id, Kind: entities.EdgeRef})
		}
	}

	return result, nil
}

func materializationFromString(s string) entities.Materialization {
	switch s {
	case "view":
		return entities.MaterializationView
	case "table":
		return entities.MaterializationTable
	case "incremental":
		return entities.MaterializationIncremental
	case "ephemeral":
		return entities.MaterializationEphemeral
	case "seed":
		return entities.MaterializationSeed
	case "snapshot":
		return entities.MaterializationSnapshot
	default:
		return ""
	}
}

func resourceKind(resourceType string) entities.NodeKind {
	switch resourceType {
	case "model":
		return entities.KindModel
	case "seed":
		return entities.KindSeed
	case "snapshot":
		return entities.KindSnapshot
	case "test", "unit_test":
		return entities.KindTest
	default:
		return ""
	}
}

// dbtCatalog mirrors catalog.json's node/column metadata.
type dbtCatalog struct {
	Nodes   map[string]catalogNode `json:"nodes"`
	Sources map[string]catalogNode `json:"sources"`
}

type catalogNode struct {
	Columns map[string]catalogColumn `json:"columns"`
}

type catalogColumn struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

// LoadCatalog implements ManifestLoader.
func (l *Loader) LoadCatalog(ctx context.Context, catalogPath string) (map[string][]entities.Column, error) {
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, &entities.ManifestMalformedError{Path: catalogPath, Err: err}
	}
	var c dbtCatalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &entities.ManifestMalformedError{Path: catalogPath, Err: err}
	}

	out := make(map[string][]entities.Column)
	merge := func(nodes map[string]catalogNode) {
		for id, n := range nodes {
			cols := make([]entities.Column, 0, len(n.Columns))
			for _, col := range n.Columns {
				cols = append(cols, entities.Column{Name: col.Name, Description: col.Comment, Type: col.Type})
			}
			out[id] = cols
		}
	}
	merge(c.Nodes)
	merge(c.Sources)
	return out, nil
}

// dbtRunResults mirrors run_results.json.
type dbtRunResults struct {
	Results []runResult `json:"results"`
}

type runResult struct {
	UniqueID string `json:"unique_id"`
	Status   string `json:"status"`
}

// LoadRunResults implements ManifestLoader.
func (l *Loader) LoadRunResults(ctx context.Context, runResultsPath string) (map[string]entities.RunStatus, error) {
	raw, err := os.ReadFile(runResultsPath)
	if err != nil {
		return nil, &entities.ManifestMalformedError{Path: runResultsPath, Err: err}
	}
	var rr dbtRunResults
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, &entities.ManifestMalformedError{Path: runResultsPath, Err: err}
	}

	out := make(map[string]entities.RunStatus, len(rr.Results))
	for _, r := range rr.Results {
		out[r.UniqueID] = runStatusFromString(r.Status)
	}
	return out, nil
}

func runStatusFromString(status string) entities.RunStatus {
	switch status {
	case "success", "pass":
		return entities.RunStatusSuccess
	case "error", "fail", "runtime error":
		return entities.RunStatusError
	case "skipped":
		return entities.RunStatusSkipped
	default:
		return entities.RunStatusNeverRun
	}
}
