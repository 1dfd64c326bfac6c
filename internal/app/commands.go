package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/mlgridgo/internal/configscan"
	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
)

// Configs runs the configuration extractor over the selected modules, or
// over every registered module, and prints the report to w.
func (a *App) Configs(ctx context.Context, w io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	mods := a.registry.Modules()
	if len(a.config.Modules) > 0 {
		var err error
		if mods, err = a.registry.Lookup(a.config.Modules...); err != nil {
			return err
		}
	}

	srcs := make([]configscan.Source, len(mods))
	for i, m := range mods {
		srcs[i] = m
	}
	res, err := configscan.FindAll(ctx, srcs...)
	if err != nil {
		return err
	}
	a.logger.Debug("Configuration scan finished.", "modules", len(srcs), "keys", res.Keys())
	return configscan.Fprint(w, res, !a.config.NoColor)
}

// Graph writes the DOT graph of the configured run to w without executing
// it.
func (a *App) Graph(ctx context.Context, w io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	runCfg, err := a.loadRunConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load run configuration: %w", err)
	}
	p, err := planPipeline(ctx, runCfg, false)
	if err != nil {
		return err
	}
	defer p.close()

	dr, err := a.newDriver(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to build dataflow: %w", err)
	}
	return dr.Describe(w, p.finalVars...)
}
