/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config configures timetrace for a process from the environment or
// a YAML file.
//
// Environment variables:
//
//	TIMETRACE_ENABLED       turn scope creation on or off (default true)
//	TIMETRACE_LOG_SCOPES    log every scope creation and disposal (default false)
//	TIMETRACE_LOG_METRICS   log the metrics of every disposed trace (default true)
//	TIMETRACE_REPORT        render a report of every disposed trace: table, tree, json or yaml
//	TIMETRACE_PROMETHEUS    record closed scopes into the default Prometheus registry (default false)
//	TIMETRACE_OPENTELEMETRY mirror traces and scopes as OpenTelemetry spans (default false)
//
// The YAML keys are the lower-cased names without the TIMETRACE_ prefix.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"chainguard.dev/timetrace"
	"chainguard.dev/timetrace/logobserver"
	"chainguard.dev/timetrace/otelobserver"
	"chainguard.dev/timetrace/promcollector"
	"chainguard.dev/timetrace/report"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config selects which collaborators observe traces.
type Config struct {
	Enabled       bool   `env:"TIMETRACE_ENABLED,default=true" yaml:"enabled"`
	LogScopes     bool   `env:"TIMETRACE_LOG_SCOPES,default=false" yaml:"log_scopes"`
	LogMetrics    bool   `env:"TIMETRACE_LOG_METRICS,default=true" yaml:"log_metrics"`
	Report        string `env:"TIMETRACE_REPORT" yaml:"report"`
	Prometheus    bool   `env:"TIMETRACE_PROMETHEUS,default=false" yaml:"prometheus"`
	OpenTelemetry bool   `env:"TIMETRACE_OPENTELEMETRY,default=false" yaml:"opentelemetry"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Enabled:    true,
		LogMetrics: true,
	}
}

// FromEnv reads the configuration from the process environment.
func FromEnv(ctx context.Context) (Config, error) {
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper reads the configuration from l.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return Config{}, fmt.Errorf("processing timetrace config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	clog.FromContext(ctx).Debug("loaded timetrace config",
		"enabled", cfg.Enabled,
		"report", cfg.Report)
	return cfg, nil
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their Default value; unknown keys are an error.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports whether the configuration can be applied.
func (c Config) Validate() error {
	if c.Report == "" {
		return nil
	}
	if _, err := report.ByName(c.Report); err != nil {
		return fmt.Errorf("TIMETRACE_REPORT: %w", err)
	}
	return nil
}

// Apply sets the process-wide enable switch.
func (c Config) Apply() {
	timetrace.SetEnabled(c.Enabled)
}

// promObserver is shared so the default registry only ever sees one set of
// timetrace metrics.
var promObserver = sync.OnceValue(func() *promcollector.Observer {
	return promcollector.NewObserver(nil)
})

// Observer builds the observer the configuration asks for. Reports are
// written to w.
func (c Config) Observer(w io.Writer) (timetrace.Observer, error) {
	var observers []timetrace.Observer

	if c.LogScopes || c.LogMetrics {
		var opts []logobserver.Option
		if !c.LogScopes {
			opts = append(opts, logobserver.WithScopeFormatter(nil))
		}
		if !c.LogMetrics {
			opts = append(opts, logobserver.WithMetricFormatter(nil))
		}
		observers = append(observers, logobserver.New(opts...))
	}

	if c.Report != "" {
		gen, err := report.ByName(c.Report)
		if err != nil {
			return nil, fmt.Errorf("TIMETRACE_REPORT: %w", err)
		}
		observers = append(observers, report.Observer(w, gen))
	}

	if c.Prometheus {
		observers = append(observers, promObserver())
	}
	if c.OpenTelemetry {
		observers = append(observers, otelobserver.New())
	}

	return timetrace.Multi(observers...), nil
}
