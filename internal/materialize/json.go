package materialize

import (
	"context"
	"fmt"
	"os"

	json "github.com/json-iterator/go"
)

// ToJSON saves the dependencies' values as indented JSON at path.
func ToJSON(id, path string, deps ...string) Saver {
	return Saver{
		ID:           id,
		Kind:         "json",
		Dependencies: deps,
		Save: func(ctx context.Context, values map[string]any) (map[string]any, error) {
			v, err := payload(deps, values)
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("json encode %T: %w", v, err)
			}
			if err := writeFile(path, data); err != nil {
				return nil, err
			}
			return map[string]any{"path": path, "bytes": len(data)}, nil
		},
	}
}

// FromJSON loads target from a JSON file. Objects decode to map[string]any
// and numbers to float64.
func FromJSON(target, path string) Loader {
	return Loader{
		Target: target,
		Kind:   "json",
		Load: func(ctx context.Context) (any, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read '%s': %w", path, err)
			}
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, fmt.Errorf("json decode '%s': %w", path, err)
			}
			return v, nil
		},
	}
}
