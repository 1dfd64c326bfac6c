package driver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/dag"
	"github.com/specialistvlad/mlgridgo/internal/materialize"
	"github.com/specialistvlad/mlgridgo/internal/metrics"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Builder collects everything a Driver needs. Methods return the builder so
// calls can be chained.
type Builder struct {
	modules []*transform.Module
	config  map[string]any
	mats    []materialize.Materializer
	workers int
	metrics *metrics.Metrics
}

// NewBuilder returns an empty builder running on a single worker.
func NewBuilder() *Builder {
	return &Builder{
		config:  make(map[string]any),
		workers: 1,
	}
}

// WithModules adds modules. Their order is the order functions are
// considered in.
func (b *Builder) WithModules(mods ...*transform.Module) *Builder {
	b.modules = append(b.modules, mods...)
	return b
}

// WithConfig adds configuration values. Later calls win on the same key.
func (b *Builder) WithConfig(cfg map[string]any) *Builder {
	for k, v := range cfg {
		b.config[k] = v
	}
	return b
}

// WithMaterializers adds savers and loaders.
func (b *Builder) WithMaterializers(mats ...materialize.Materializer) *Builder {
	b.mats = append(b.mats, mats...)
	return b
}

// WithWorkers sets how many nodes may run at once.
func (b *Builder) WithWorkers(n int) *Builder {
	b.workers = n
	return b
}

// WithMetrics records executions into m.
func (b *Builder) WithMetrics(m *metrics.Metrics) *Builder {
	b.metrics = m
	return b
}

// Build resolves the active functions, wires them into a graph and checks it
// is acyclic.
func (b *Builder) Build(ctx context.Context) (*Driver, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building driver.", "modules", len(b.modules), "config", b.config)

	nodes := make(map[string]*node)
	origin := make(map[string]string)

	for _, m := range b.modules {
		if m == nil {
			return nil, fmt.Errorf("module list contains nil")
		}
		for _, fn := range m.Functions() {
			if !fn.Active(b.config) {
				logger.Debug("Function inactive for configuration.", "module", m.Name(), "function", fn.Name)
				continue
			}
			name := fn.BaseName()
			where := m.Name() + "." + fn.Name
			if prev, exists := origin[name]; exists {
				return nil, fmt.Errorf("node '%s' is defined twice for this configuration: by %s and by %s", name, prev, where)
			}
			origin[name] = where
			nodes[name] = &node{name: name, kind: kindFunction, module: m.Name(), fn: fn}

			for _, field := range fn.Extract {
				if prev, exists := origin[field]; exists {
					return nil, fmt.Errorf("field '%s' extracted by %s is already defined by %s", field, where, prev)
				}
				origin[field] = where
				nodes[field] = &node{name: field, kind: kindExtract, module: m.Name(), parent: name, deps: []string{name}}
			}
		}
	}

	var savers []*materialize.Saver
	for _, mat := range b.mats {
		if mat == nil {
			return nil, fmt.Errorf("materializer list contains nil")
		}
		if err := mat.Validate(); err != nil {
			return nil, fmt.Errorf("invalid materializer: %w", err)
		}
		switch m := mat.(type) {
		case materialize.Loader:
			if prev, exists := origin[m.Target]; exists {
				logger.Debug("Loader replaces node.", "target", m.Target, "replaced", prev)
			}
			origin[m.Target] = m.Kind + " loader"
			nodes[m.Target] = &node{name: m.Target, kind: kindLoader, loader: &m}
		case materialize.Saver:
			savers = append(savers, &m)
		default:
			return nil, fmt.Errorf("unsupported materializer %T", mat)
		}
	}
	// Savers are added last so they can depend on loaded nodes.
	for _, s := range savers {
		if prev, exists := origin[s.ID]; exists {
			return nil, fmt.Errorf("saver id '%s' is already defined by %s", s.ID, prev)
		}
		origin[s.ID] = s.Kind + " saver"
		nodes[s.ID] = &node{name: s.ID, kind: kindSaver, saver: s, deps: append([]string(nil), s.Dependencies...)}
	}

	// Wire function inputs to nodes; the rest are external.
	for _, n := range nodes {
		if n.kind != kindFunction {
			continue
		}
		for _, in := range n.fn.Inputs {
			if _, ok := nodes[in.Name]; ok {
				n.deps = append(n.deps, in.Name)
			} else {
				n.external = append(n.external, in)
			}
		}
	}

	g := dag.New()
	for name := range nodes {
		g.AddNode(name)
	}
	for _, n := range nodes {
		for _, dep := range n.deps {
			if _, ok := nodes[dep]; !ok {
				return nil, fmt.Errorf("node '%s' depends on unknown node '%s'", n.name, dep)
			}
			if err := g.AddEdge(dep, n.name); err != nil {
				return nil, fmt.Errorf("failed to wire '%s' into '%s': %w", dep, n.name, err)
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("dataflow is not acyclic: %w", err)
	}

	cfg := make(map[string]any, len(b.config))
	for k, v := range b.config {
		cfg[k] = v
	}

	logger.Info("🧩 Driver built.", "nodes", len(nodes), "functions", countKind(nodes, kindFunction))
	return &Driver{
		graph:   g,
		nodes:   nodes,
		config:  cfg,
		workers: b.workers,
		metrics: b.metrics,
	}, nil
}

func countKind(nodes map[string]*node, kind nodeKind) int {
	n := 0
	for _, nd := range nodes {
		if nd.kind == kind {
			n++
		}
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
