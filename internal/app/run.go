package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/frame"
)

// Run executes the pipeline described by the run configuration and returns
// the values of its final variables.
func (a *App) Run(ctx context.Context) (map[string]any, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(a.config.HealthcheckPort); err != nil {
			return nil, err
		}
		defer a.closeHealthcheckServer()
	}

	runCfg, err := a.loadRunConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load run configuration: %w", err)
	}
	dump, err := runCfg.YAML()
	if err != nil {
		return nil, err
	}
	a.logger.Info("Starting application with configuration.", "config", dump)

	p, err := planPipeline(ctx, runCfg, true)
	if err != nil {
		return nil, err
	}
	defer p.close()

	dr, err := a.newDriver(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataflow: %w", err)
	}

	if a.config.GraphOut != "" {
		if err := writeGraph(a.config.GraphOut, func(f *os.File) error { return dr.Describe(f, p.finalVars...) }); err != nil {
			return nil, err
		}
		a.logger.Info("Dataflow graph written.", "path", a.config.GraphOut)
	}

	a.logger.Info("🚀 Starting dataflow execution...", "mode", p.mode, "model_type", p.modelType, "workers", a.config.WorkerCount)
	results, err := dr.Execute(ctx, p.finalVars, p.inputs)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", summarize(results)...)

	a.logger.Debug("App.Run method finished.")
	return results, nil
}

func writeGraph(path string, describe func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create graph directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create graph file: %w", err)
	}
	if err := describe(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// summarize turns results into log attributes, shortening bulky values.
func summarize(results map[string]any) []any {
	names := make([]string, 0, len(results))
	for k := range results {
		names = append(names, k)
	}
	sort.Strings(names)

	attrs := make([]any, 0, len(names))
	for _, k := range names {
		switch v := results[k].(type) {
		case []float64:
			attrs = append(attrs, slog.Int(k+"_count", len(v)))
		case *frame.Frame:
			attrs = append(attrs, slog.String(k, v.String()))
		default:
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	return attrs
}
