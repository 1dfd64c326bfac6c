package configscan

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Fprint writes a human-readable report of the result: the key set first,
// then every key's bound values.
func Fprint(w io.Writer, r *Result, colorize bool) error {
	keyColor := color.New(color.FgCyan, color.Bold)
	valColor := color.New(color.FgYellow)
	if !colorize {
		keyColor.DisableColor()
		valColor.DisableColor()
	}

	keys := r.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = keyColor.Sprint(k)
	}
	if _, err := fmt.Fprintf(w, "configurations: {%s}\n", strings.Join(names, ", ")); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "config_values:"); err != nil {
		return err
	}
	for _, k := range r.ValueKeys() {
		vals := make([]string, len(r.ConfigValues[k]))
		for i, v := range r.ConfigValues[k] {
			vals[i] = valColor.Sprint(formatValue(v))
		}
		if _, err := fmt.Fprintf(w, "  %s: [%s]\n", keyColor.Sprint(k), strings.Join(vals, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprintf("%q", e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}
