package driver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/dag"
	"github.com/specialistvlad/mlgridgo/internal/inmemorystore"
	"github.com/specialistvlad/mlgridgo/internal/metrics"
	"github.com/specialistvlad/mlgridgo/internal/nodestore"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Driver executes a built dataflow. It is safe to call Execute concurrently;
// every call gets its own node store.
type Driver struct {
	graph   *dag.Graph
	nodes   map[string]*node
	config  map[string]any
	workers int
	metrics *metrics.Metrics
}

// Config returns a copy of the configuration the driver was built with.
func (d *Driver) Config() map[string]any {
	out := make(map[string]any, len(d.config))
	for k, v := range d.config {
		out[k] = v
	}
	return out
}

// ListAvailable returns the names of all nodes in sorted order.
func (d *Driver) ListAvailable() []string {
	return d.graph.Nodes()
}

// Variables describes all nodes in sorted order.
func (d *Driver) Variables() []Variable {
	out := make([]Variable, 0, len(d.nodes))
	for _, name := range d.graph.Nodes() {
		out = append(out, d.nodes[name].variable())
	}
	return out
}

// Validate checks that finalVars exist and every input they need can be
// resolved from inputs, configuration or a default.
func (d *Driver) Validate(finalVars []string, inputs map[string]any) error {
	_, err := d.plan(finalVars, inputs)
	return err
}

// plan returns the subgraph needed for finalVars.
func (d *Driver) plan(finalVars []string, inputs map[string]any) (*dag.Graph, error) {
	if len(finalVars) == 0 {
		return nil, fmt.Errorf("no final variables requested")
	}
	var unknown []string
	for _, v := range finalVars {
		if _, ok := d.nodes[v]; !ok {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown final variable(s) %s; available: %v", quoteAll(unknown), d.ListAvailable())
	}

	keep, err := d.graph.Ancestors(finalVars...)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range sortedKeys(keep) {
		n := d.nodes[name]
		for _, in := range n.external {
			if _, ok := d.resolveExternal(in, inputs); !ok {
				missing = append(missing, fmt.Sprintf("'%s' (needed by '%s')", in.Name, name))
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing input(s): %v", missing)
	}
	return d.graph.Subgraph(keep), nil
}

// resolveExternal looks an input up in the runtime inputs, then the
// configuration, then the declared default.
func (d *Driver) resolveExternal(in transform.Input, inputs map[string]any) (any, bool) {
	if v, ok := inputs[in.Name]; ok {
		return v, true
	}
	if v, ok := d.config[in.Name]; ok {
		return v, true
	}
	if in.HasDefault {
		return in.Default, true
	}
	return nil, false
}

// Execute computes finalVars and returns their values keyed by name. Only
// the nodes they depend on are run.
func (d *Driver) Execute(ctx context.Context, finalVars []string, inputs map[string]any) (map[string]any, error) {
	runID := uuid.New().String()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	results, err := d.execute(ctx, finalVars, inputs)
	elapsed := time.Since(start)
	d.metrics.ObserveRun(err, elapsed)

	if err != nil {
		logger.Error("Dataflow execution failed.", "error", err, "elapsed", elapsed)
		return nil, err
	}
	logger.Info("✅ Dataflow execution completed.", "final_vars", finalVars, "elapsed", elapsed)
	return results, nil
}

func (d *Driver) execute(ctx context.Context, finalVars []string, inputs map[string]any) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	sub, err := d.plan(finalVars, inputs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Execution planned.", "nodes", sub.Nodes(), "final_vars", finalVars)

	store := inmemorystore.New()
	task := func(ctx context.Context, id string) error {
		return d.runNode(ctx, store, d.nodes[id], inputs)
	}

	var opts []dag.ExecutorOption
	if d.metrics != nil {
		opts = append(opts, dag.WithObserver(d.metrics))
	}
	if err := dag.NewExecutor(sub, store, d.workers, task, opts...).Run(ctx); err != nil {
		return nil, err
	}

	results := make(map[string]any, len(finalVars))
	for _, v := range finalVars {
		out, ok, err := store.GetOutput(ctx, v)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("node '%s' produced no output", v)
		}
		results[v] = out
	}
	return results, nil
}

func (d *Driver) runNode(ctx context.Context, store nodestore.Store, n *node, inputs map[string]any) error {
	logger := ctxlog.FromContext(ctx)

	var (
		out any
		err error
	)
	switch n.kind {
	case kindFunction:
		var args transform.Args
		args, err = d.collectArgs(ctx, store, n, inputs)
		if err != nil {
			return err
		}
		logger.Debug("Calling function.", "module", n.module, "function", n.fn.Name)
		out, err = n.fn.Call(ctx, args)

	case kindExtract:
		out, err = extractField(ctx, store, n)

	case kindLoader:
		out, err = n.loader.Load(ctx)
		d.metrics.ObserveMaterialization(n.loader.Kind, "load", err)

	case kindSaver:
		values := make(map[string]any, len(n.deps))
		for _, dep := range n.deps {
			v, _, gerr := store.GetOutput(ctx, dep)
			if gerr != nil {
				return gerr
			}
			values[dep] = v
		}
		out, err = n.saver.Save(ctx, values)
		d.metrics.ObserveMaterialization(n.saver.Kind, "save", err)

	default:
		return fmt.Errorf("node '%s' has unknown kind", n.name)
	}
	if err != nil {
		return fmt.Errorf("%s '%s': %w", n.kind, n.name, err)
	}
	return store.SetOutput(ctx, n.name, out)
}

func (d *Driver) collectArgs(ctx context.Context, store nodestore.Store, n *node, inputs map[string]any) (transform.Args, error) {
	args := make(transform.Args, len(n.fn.Inputs))
	for _, dep := range n.deps {
		v, ok, err := store.GetOutput(ctx, dep)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("function '%s': upstream node '%s' produced no output", n.name, dep)
		}
		args[dep] = v
	}
	for _, in := range n.external {
		v, ok := d.resolveExternal(in, inputs)
		if !ok {
			return nil, fmt.Errorf("function '%s': missing input '%s'", n.name, in.Name)
		}
		args[in.Name] = v
	}
	return args, nil
}

func extractField(ctx context.Context, store nodestore.Store, n *node) (any, error) {
	parent, ok, err := store.GetOutput(ctx, n.parent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("parent '%s' produced no output", n.parent)
	}
	fields, ok := parent.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parent '%s' returned %T, want map[string]any", n.parent, parent)
	}
	v, ok := fields[n.name]
	if !ok {
		return nil, fmt.Errorf("parent '%s' did not return field '%s'", n.parent, n.name)
	}
	return v, nil
}
