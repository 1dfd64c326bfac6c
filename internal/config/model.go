package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a path does not exist in the model.
var ErrNotFound = errors.New("config value not found")

// Model is a tree of configuration values addressed by dotted paths such as
// "model.n_estimators". Nested sections are map[string]any.
type Model struct {
	values map[string]any
}

// New creates an empty model.
func New() *Model {
	return &Model{values: make(map[string]any)}
}

// FromMap creates a model holding a deep copy of m.
func FromMap(m map[string]any) *Model {
	return &Model{values: deepCopyMap(m)}
}

// Map returns a deep copy of the whole tree.
func (m *Model) Map() map[string]any {
	return deepCopyMap(m.values)
}

// Get returns the value at path.
func (m *Model) Get(path string) (any, bool) {
	var cur any = m.values
	for _, part := range strings.Split(path, ".") {
		section, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = section[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path exists.
func (m *Model) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// String returns the string at path.
func (m *Model) String(path string) (string, error) {
	v, ok := m.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config value %s is %T, want string", path, v)
	}
	return s, nil
}

// Int returns the integer at path. Whole floats are accepted.
func (m *Model) Int(path string) (int, error) {
	v, ok := m.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("config value %s is %v (%T), want integer", path, v, v)
}

// Float returns the number at path.
func (m *Model) Float(path string) (float64, error) {
	v, ok := m.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("config value %s is %T, want number", path, v)
}

// Set stores v at path, creating intermediate sections. A non-section value
// in the way is replaced.
func (m *Model) Set(path string, v any) error {
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid config path %q", path)
		}
	}

	section := m.values
	for _, part := range parts[:len(parts)-1] {
		next, ok := section[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			section[part] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = v
	return nil
}

// Merge deep-merges other into m. Sections are merged key by key; any other
// value from other replaces the one in m.
func (m *Model) Merge(other *Model) {
	mergeInto(m.values, other.values)
}

// Flatten returns every leaf value keyed by its dotted path.
func (m *Model) Flatten() map[string]any {
	out := make(map[string]any)
	flatten("", m.values, out)
	return out
}

// Keys returns the dotted paths of every leaf in sorted order.
func (m *Model) Keys() []string {
	flat := m.Flatten()
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// YAML renders the model as a YAML document.
func (m *Model) YAML() (string, error) {
	out, err := yaml.Marshal(m.values)
	if err != nil {
		return "", fmt.Errorf("failed to render config as YAML: %w", err)
	}
	return string(out), nil
}

func flatten(prefix string, section map[string]any, out map[string]any) {
	for k, v := range section {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok && len(sub) > 0 {
			flatten(path, sub, out)
			continue
		}
		out[path] = v
	}
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		srcSection, srcIsSection := v.(map[string]any)
		dstSection, dstIsSection := dst[k].(map[string]any)
		if srcIsSection && dstIsSection {
			mergeInto(dstSection, srcSection)
			continue
		}
		dst[k] = deepCopyValue(v)
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
