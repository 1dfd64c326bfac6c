package materialize

import (
	"context"
	"fmt"
)

// SaveFunc writes the values of a saver's dependencies, keyed by node name,
// and returns metadata describing the write.
type SaveFunc func(ctx context.Context, values map[string]any) (map[string]any, error)

// LoadFunc reads a stored value.
type LoadFunc func(ctx context.Context) (any, error)

// Materializer is either a Saver or a Loader.
type Materializer interface {
	Validate() error
}

// Saver persists the outputs of its dependencies. ID names the graph node the
// saver becomes.
type Saver struct {
	ID           string
	Kind         string
	Dependencies []string
	Save         SaveFunc
}

// Loader provides the value of Target from storage.
type Loader struct {
	Target string
	Kind   string
	Load   LoadFunc
}

// Validate reports a saver that cannot be wired into a graph.
func (s Saver) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%s saver has no id", s.Kind)
	}
	if len(s.Dependencies) == 0 {
		return fmt.Errorf("saver '%s' has no dependencies", s.ID)
	}
	if s.Save == nil {
		return fmt.Errorf("saver '%s' has no save function", s.ID)
	}
	return nil
}

// Validate reports a loader that cannot be wired into a graph.
func (l Loader) Validate() error {
	if l.Target == "" {
		return fmt.Errorf("%s loader has no target", l.Kind)
	}
	if l.Load == nil {
		return fmt.Errorf("loader for '%s' has no load function", l.Target)
	}
	return nil
}

// payload picks what a saver writes: the bare value for a single dependency,
// the whole map otherwise.
func payload(deps []string, values map[string]any) (any, error) {
	for _, d := range deps {
		if _, ok := values[d]; !ok {
			return nil, fmt.Errorf("value of dependency '%s' not provided", d)
		}
	}
	if len(deps) == 1 {
		return values[deps[0]], nil
	}
	out := make(map[string]any, len(deps))
	for _, d := range deps {
		out[d] = values[d]
	}
	return out, nil
}

var (
	_ Materializer = Saver{}
	_ Materializer = Loader{}
)
