package materialize

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// envelope lets gob carry an interface value at the top level.
type envelope struct {
	Value any
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope{Value: v}); err != nil {
		return nil, fmt.Errorf("gob encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte) (any, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return env.Value, nil
}

// ToGob saves the dependencies' values to a gob file at path. Concrete types
// stored behind interfaces must be registered with gob.Register.
func ToGob(id, path string, deps ...string) Saver {
	return Saver{
		ID:           id,
		Kind:         "gob",
		Dependencies: deps,
		Save: func(ctx context.Context, values map[string]any) (map[string]any, error) {
			v, err := payload(deps, values)
			if err != nil {
				return nil, err
			}
			data, err := encodeGob(v)
			if err != nil {
				return nil, err
			}
			if err := writeFile(path, data); err != nil {
				return nil, err
			}
			return map[string]any{"path": path, "bytes": len(data)}, nil
		},
	}
}

// FromGob loads target from a gob file written by ToGob.
func FromGob(target, path string) Loader {
	return Loader{
		Target: target,
		Kind:   "gob",
		Load: func(ctx context.Context) (any, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read '%s': %w", path, err)
			}
			return decodeGob(data)
		},
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for '%s': %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
