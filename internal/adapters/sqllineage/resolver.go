// Package sqllineage implements a best-effort lexical column lineage
// resolver (C8): it reads a model's raw SQL, isolates the final SELECT
// list and its FROM/JOIN scope, and attributes each output column to zero
// or more upstream (node, column) pairs. It never parses a full AST; a
// model whose SQL defeats the regexes below yields a partial or empty
// ColumnLineage rather than an error, per the resolver's non-fatal
// contract.
package sqllineage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// Resolver is the concrete ColumnLineageResolver.
type Resolver struct {
	projectRoot string
	readFile    func(path string) ([]byte, error)
}

// NewResolver returns a Resolver that reads model SQL relative to
// projectRoot.
func NewResolver(projectRoot string) *Resolver {
	return &Resolver{projectRoot: projectRoot, readFile: os.ReadFile}
}

var (
	refCallRe    = regexp.MustCompile(`(?i)ref\(\s*'([^']+)'\s*\)`)
	sourceCallRe = regexp.MustCompile(`(?i)source\(\s*'([^']+)'\s*,\s*'([^']+)'\s*\)`)
	aliasAfterRe = regexp.MustCompile(`(?i)^(.*\S)\s+as\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*$`)
	bareAliasRe  = regexp.MustCompile(`(?i)^(.*\S)\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*$`)
	columnRefRe  = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)`)
)

// tableRef is one FROM/JOIN entry: an upstream node id with the alias (or
// bare table name) SQL uses to refer to it within this query's scope.
type tableRef struct {
	alias  string
	nodeID string
}

// ResolveColumn implements ColumnLineageResolver.
func (r *Resolver) ResolveColumn(g *entities.Graph, nodeID, column string) (*entities.ColumnLineage, error) {
	items, refs, err := r.parseSelect(g, nodeID)
	if err != nil {
		return &entities.ColumnLineage{NodeID: nodeID, Column: column}, nil
	}
	for _, it := range items {
		if it.name == column {
			return &entities.ColumnLineage{NodeID: nodeID, Column: column, Sources: resolveItem(it, refs, g)}, nil
		}
	}
	return &entities.ColumnLineage{NodeID: nodeID, Column: column}, nil
}

// ResolveAllColumns implements ColumnLineageResolver.
func (r *Resolver) ResolveAllColumns(g *entities.Graph, nodeID string) ([]*entities.ColumnLineage, error) {
	items, refs, err := r.parseSelect(g, nodeID)
	if err != nil {
		return nil, nil
	}
	out := make([]*entities.ColumnLineage, 0, len(items))
	for _, it := range items {
		out = append(out, &entities.ColumnLineage{
			NodeID:  nodeID,
			Column:  it.name,
			Sources: resolveItem(it, refs, g),
		})
	}
	return out, nil
}

// selectItem is one parsed output expression of the final SELECT list.
type selectItem struct {
	name       string // output column name (alias, or the bare column name)
	expr       string // the expression text before any trailing "AS alias"
	star       bool   // "*" or "tbl.*"
	starTable  string // the "tbl" in "tbl.*"; empty for bare "*"
	direct     bool   // expr is a single identifier or tbl.col with no operators
	directTbl  string // the "tbl" alias in a direct tbl.col reference; empty if bare
	directCol  string
	aliased    bool // an explicit "AS alias" was present on a direct reference
}

func (r *Resolver) parseSelect(g *entities.Graph, nodeID string) ([]selectItem, []tableRef, error) {
	node, ok := g.GetNode(nodeID)
	if !ok {
		return nil, nil, fmt.Errorf("node %q not found", nodeID)
	}
	if node.Path == "" {
		return nil, nil, fmt.Errorf("node %q has no source path", nodeID)
	}
	raw, err := r.readFile(filepath.Join(r.projectRoot, node.Path))
	if err != nil {
		return nil, nil, err
	}
	sql := stripComments(string(raw))

	selectStart, fromStart, clauseEnd, ok := finalQueryBounds(sql)
	if !ok {
		return nil, nil, fmt.Errorf("no top-level SELECT found")
	}

	selectList := sql[selectStart:fromStart]
	fromClause := sql[fromStart:clauseEnd]

	items := parseSelectList(selectList)
	refs := parseFromClause(fromClause)
	return items, refs, nil
}

// finalQueryBounds locates the text of the outermost (final) SELECT's
// column list and FROM/JOIN clause, skipping CTE bodies which always live
// at deeper paren nesting.
func finalQueryBounds(sql string) (selectStart, fromStart, clauseEnd int, ok bool) {
	depths := parenDepths(sql)

	selectRe := regexp.MustCompile(`(?i)\bselect\b`)
	fromRe := regexp.MustCompile(`(?i)\bfrom\b`)
	endRe := regexp.MustCompile(`(?i)\b(where|group\s+by|order\s+by|having|qualify|window|limit)\b`)

	var lastSelect = -1
	for _, m := range selectRe.FindAllStringIndex(sql, -1) {
		if depths[m[0]] == 0 {
			lastSelect = m[1]
		}
	}
	if lastSelect < 0 {
		return 0, 0, 0, false
	}

	baseDepth := depths[lastSelect]
	var firstFrom = -1
	for _, m := range fromRe.FindAllStringIndex(sql, -1) {
		if m[0] > lastSelect && depths[m[0]] == baseDepth {
			firstFrom = m[0]
			break
		}
	}
	if firstFrom < 0 {
		return 0, 0, 0, false
	}

	end := len(sql)
	for _, m := range endRe.FindAllStringIndex(sql, -1) {
		if m[0] > firstFrom+4 && depths[m[0]] == baseDepth {
			end = m[0]
			break
		}
	}

	return lastSelect, firstFrom, end, true
}

// parenDepths returns, for each byte offset in sql, the paren nesting
// depth *before* that byte.
func parenDepths(sql string) []int {
	depths := make([]int, len(sql)+1)
	depth := 0
	for i, c := range sql {
		depths[i] = depth
		if c == '(' {
			depth++
		} else if c == ')' {
			depth--
		}
	}
	depths[len(sql)] = depth
	return depths
}

func stripComments(sql string) string {
	lineCommentRe := regexp.MustCompile(`--[^\n]*`)
	blockCommentRe := regexp.MustCompile(`(?s)/\*.*?\*/`)
	sql = blockCommentRe.ReplaceAllString(sql, "")
	sql = lineCommentRe.ReplaceAllString(sql, "")
	return sql
}

// splitTopLevel splits s on sep at paren depth 0.
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseSelectList(list string) []selectItem {
	list = strings.TrimSpace(list)
	list = regexp.MustCompile(`(?i)^distinct\s+`).ReplaceAllString(list, "")

	var items []selectItem
	for _, raw := range splitTopLevel(list, ',') {
		expr := strings.TrimSpace(raw)
		if expr == "" {
			continue
		}
		items = append(items, parseSelectItem(expr))
	}
	return items
}

func parseSelectItem(expr string) selectItem {
	if expr == "*" {
		return selectItem{name: "*", star: true}
	}
	if strings.HasSuffix(expr, ".*") {
		tbl := strings.TrimSuffix(expr, ".*")
		return selectItem{name: expr, star: true, starTable: tbl}
	}

	body := expr
	name := ""
	aliased := false
	if m := aliasAfterRe.FindStringSubmatch(expr); m != nil {
		body, name, aliased = m[1], m[2], true
	}

	if tbl, col, ok := directColumnRef(body); ok {
		if name == "" {
			name = col
		}
		return selectItem{name: name, expr: body, direct: true, directTbl: tbl, directCol: col, aliased: aliased}
	}
	if name == "" {
		// No AS clause and not a direct reference: fall back to treating a
		// trailing bare identifier as an implicit alias on a derived
		// expression (e.g. "a + b total").
		if m := bareAliasRe.FindStringSubmatch(expr); m != nil && !looksLikeFunctionCall(expr) {
			body, name = m[1], m[2]
		} else {
			name = expr
		}
	}
	return selectItem{name: name, expr: body}
}

// looksLikeFunctionCall avoids misreading "count(*) rows" style arg lists
// as the whole expression when bareAliasRe's greedy match would otherwise
// swallow the open paren's contents.
func looksLikeFunctionCall(expr string) bool {
	return strings.Contains(expr, "(") && strings.HasSuffix(strings.TrimSpace(expr), ")")
}

// directColumnRef reports whether body is a single identifier or a bare
// tbl.col reference with no other operators.
func directColumnRef(body string) (tbl, col string, ok bool) {
	body = strings.TrimSpace(body)
	identRe := regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	qualifiedRe := regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\.([a-zA-Z_][a-zA-Z0-9_]*)$`)
	if identRe.MatchString(body) {
		return "", body, true
	}
	if m := qualifiedRe.FindStringSubmatch(body); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// parseFromClause extracts table references (ref()/source() calls or bare
// table names) and their aliases from a FROM ... JOIN ... clause.
func parseFromClause(clause string) []tableRef {
	var refs []tableRef

	for _, m := range refCallRe.FindAllStringSubmatchIndex(clause, -1) {
		name := clause[m[2]:m[3]]
		nodeID := "model." + name
		alias := name
		if a, ok := trailingAlias(clause, m[1]); ok {
			alias = a
		}
		refs = append(refs, tableRef{alias: alias, nodeID: nodeID})
	}

	for _, m := range sourceCallRe.FindAllStringSubmatchIndex(clause, -1) {
		src := clause[m[2]:m[3]]
		tbl := clause[m[4]:m[5]]
		nodeID := "source." + src + "." + tbl
		alias := tbl
		if a, ok := trailingAlias(clause, m[1]); ok {
			alias = a
		}
		refs = append(refs, tableRef{alias: alias, nodeID: nodeID})
	}

	return refs
}

// trailingAlias reads an optional "[AS] alias" immediately following a
// ref()/source() call ending at pos.
func trailingAlias(s string, pos int) (string, bool) {
	rest := s[pos:]
	m := regexp.MustCompile(`(?i)^\s*\}{0,2}\s*(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)`).FindStringSubmatch(rest)
	if m == nil {
		return "", false
	}
	kw := strings.ToLower(m[1])
	if kw == "on" || kw == "join" || kw == "left" || kw == "right" || kw == "inner" || kw == "full" || kw == "cross" || kw == "where" {
		return "", false
	}
	return m[1], true
}

// resolveItem attributes a parsed select item to zero or more upstream
// (node, column) pairs using refs for alias resolution.
func resolveItem(it selectItem, refs []tableRef, g *entities.Graph) []entities.ColumnSource {
	resolveTable := func(alias string) (string, bool) {
		if alias == "" {
			if len(refs) == 1 {
				return refs[0].nodeID, true
			}
			return "", false
		}
		for _, r := range refs {
			if r.alias == alias {
				return r.nodeID, true
			}
		}
		return "", false
	}

	switch {
	case it.star:
		var sources []entities.ColumnSource
		tables := refs
		if it.starTable != "" {
			tables = nil
			for _, r := range refs {
				if r.alias == it.starTable {
					tables = append(tables, r)
				}
			}
		}
		for _, t := range tables {
			upstream, ok := g.GetNode(t.nodeID)
			if !ok {
				continue
			}
			for _, col := range upstream.Columns {
				sources = append(sources, entities.ColumnSource{
					UpstreamNodeID: t.nodeID,
					UpstreamColumn: col.Name,
					Confidence:     entities.ConfidenceStar,
				})
			}
		}
		return sources

	case it.direct:
		nodeID, ok := resolveTable(it.directTbl)
		if !ok {
			return nil
		}
		confidence := entities.ConfidenceDirect
		if it.aliased {
			confidence = entities.ConfidenceAliased
		}
		return []entities.ColumnSource{{UpstreamNodeID: nodeID, UpstreamColumn: it.directCol, Confidence: confidence}}

	default:
		var sources []entities.ColumnSource
		for _, m := range columnRefRe.FindAllStringSubmatch(it.expr, -1) {
			nodeID, ok := resolveTable(m[1])
			if !ok {
				continue
			}
			sources = append(sources, entities.ColumnSource{UpstreamNodeID: nodeID, UpstreamColumn: m[2], Confidence: entities.ConfidenceDerived})
		}
		return sources
	}
}
