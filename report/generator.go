/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator renders a Report.
type Generator func(r *Report) (string, error)

// Generators maps the names accepted by ByName to their generator.
var Generators = map[string]Generator{
	"table": Table,
	"tree":  Tree,
	"json":  JSON,
	"yaml":  YAML,
}

// ByName returns the generator registered under name.
func ByName(name string) (Generator, error) {
	g, ok := Generators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(Generators))
		for n := range Generators {
			names = append(names, n)
		}
		slices.Sort(names)
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return g, nil
}

// Table renders one row per scope path, sorted by path.
func Table(r *Report) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "## Trace %s (%v)\n\n", r.TraceID, r.TotalDuration())

	table := newTable([]string{"Scope", "Calls", "Total", "Average"}, &buf)
	for _, s := range r.Scopes {
		if err := table.Append([]string{s.Path, fmt.Sprint(s.Count), s.Total, s.Average}); err != nil {
			return "", fmt.Errorf("appending %s: %w", s.Path, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}
	return buf.String(), nil
}

// Tree renders scopes indented under their parent path, with the share of
// the trace duration each one accounts for.
func Tree(r *Report) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "## Trace %s (%v)\n\n", r.TraceID, r.TotalDuration())

	scopes := slices.Clone(r.Scopes)
	// Sort by segments so children always follow their parent directly.
	slices.SortStableFunc(scopes, func(a, b Scope) int {
		return slices.Compare(strings.Split(a.Path, "/"), strings.Split(b.Path, "/"))
	})

	table := newTable([]string{"Scope", "Calls", "Total", "Average", "Share"}, &buf)
	for _, s := range scopes {
		row := []string{
			strings.Repeat("  ", s.Depth) + s.Name,
			fmt.Sprint(s.Count),
			s.Total,
			s.Average,
			fmt.Sprintf("%.1f%%", r.Share(s)*100),
		}
		if err := table.Append(row); err != nil {
			return "", fmt.Errorf("appending %s: %w", s.Path, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering tree: %w", err)
	}
	return buf.String(), nil
}

// JSON renders the report as indented JSON.
func JSON(r *Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(b) + "\n", nil
}

// YAML renders the report as a YAML document.
func YAML(r *Report) (string, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(b), nil
}
