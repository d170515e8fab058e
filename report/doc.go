/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report renders the metrics accumulated by a timetrace.Trace.

# Overview

New captures a trace's metrics into a Report, a plain document that can be
rendered in several ways:

  - Table: one markdown table row per full scope path
  - Tree: scopes indented under their parents, with their share of the trace
  - JSON and YAML: the Report document itself
  - Schema: the JSON schema of the document

All renderers implement Generator, and ByName looks one up by the name used in
configuration ("table", "tree", "json" or "yaml").

# Usage

	ctx, tr := timetrace.New(ctx, timetrace.WithObserver(report.Observer(os.Stdout, report.Tree)))
	defer tr.Dispose() // the tree is printed here

Or on demand:

	out, err := report.Table(report.New(tr))

Path segments are separated by "/", so a scope name that itself contains "/"
is rendered as if it were nested.
*/
package report
