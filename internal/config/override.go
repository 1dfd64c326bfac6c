package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Override is a single `path=value` assignment from the command line.
type Override struct {
	Path  string
	Value any
}

// ParseOverride parses `path=value`. The value is read as an HCL expression;
// when it does not evaluate on its own, as with a bare word, the raw text is
// used as a string.
func ParseOverride(s string) (Override, error) {
	path, raw, ok := strings.Cut(s, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return Override{}, fmt.Errorf("invalid override %q: want path=value", s)
	}
	return Override{Path: path, Value: parseValue(raw)}, nil
}

func parseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	expr, diags := hclsyntax.ParseExpression([]byte(trimmed), "override", hcl.InitialPos)
	if diags.HasErrors() {
		return trimmed
	}
	// Only functions are available here, so a bare word never resolves to a
	// variable.
	val, diags := expr.Value(&hcl.EvalContext{Functions: evalContext().Functions})
	if diags.HasErrors() {
		return trimmed
	}
	v, err := ctyToGo(val)
	if err != nil {
		return trimmed
	}
	return v
}

// Apply parses and applies overrides in order.
func (m *Model) Apply(overrides ...string) error {
	for _, s := range overrides {
		o, err := ParseOverride(s)
		if err != nil {
			return err
		}
		if err := m.Set(o.Path, o.Value); err != nil {
			return fmt.Errorf("invalid override %q: %w", s, err)
		}
	}
	return nil
}
