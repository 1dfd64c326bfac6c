package config

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gopkg.in/yaml.v3"
)

var extensions = []string{".hcl", ".yaml", ".yml"}

// Load reads every path in order and deep-merges the results; later values
// win. A directory contributes all of its configuration files in lexical
// order.
func Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "path_count", len(paths))

	model := New()
	parser := hclparse.NewParser()
	for _, p := range paths {
		files, err := discover(p)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			logger.Warn("No configuration files found in path.", "path", p)
		}
		for _, file := range files {
			values, err := loadFile(parser, file)
			if err != nil {
				return nil, err
			}
			logger.Debug("Loaded configuration file.", "file", file, "keys", len(values))
			mergeInto(model.values, values)
		}
	}
	return model, nil
}

func discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, extensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to find config files in %s: %w", path, err)
	}
	return files, nil
}

func loadFile(parser *hclparse.Parser, path string) (map[string]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return loadHCL(parser, path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported config file %s: want one of %s", path, strings.Join(extensions, ", "))
	}
}

// --- HCL ---

func loadHCL(parser *hclparse.Parser, path string) (map[string]any, error) {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: not native HCL syntax", path)
	}
	values, err := decodeBody(body, evalContext())
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
	}
	return values, nil
}

// evalContext exposes environment variables as `env.NAME` and a few
// string and number functions.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
		Functions: map[string]function.Function{
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
			"min":    stdlib.MinFunc,
			"max":    stdlib.MaxFunc,
			"concat": stdlib.ConcatFunc,
		},
	}
}

// decodeBody turns attributes into values and blocks into sections. A
// labeled block nests one section per label:
//
//	model "v1" { n_estimators = 10 }  =>  model.v1.n_estimators = 10
func decodeBody(body *hclsyntax.Body, evalCtx *hcl.EvalContext) (map[string]any, error) {
	out := make(map[string]any)
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		v, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		out[name] = v
	}

	for _, block := range body.Blocks {
		content, err := decodeBody(block.Body, evalCtx)
		if err != nil {
			return nil, err
		}
		section := out
		for _, key := range append([]string{block.Type}, block.Labels...) {
			next, ok := section[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				section[key] = next
			}
			section = next
		}
		mergeInto(section, content)
	}
	return out, nil
}

// ctyToGo converts a cty value into plain Go values: string, int, float64,
// bool, []any and map[string]any.
func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	t := v.Type()
	switch {
	case t.Equals(cty.String):
		return v.AsString(), nil
	case t.Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case t.Equals(cty.Bool):
		return v.True(), nil
	case t.IsListType(), t.IsTupleType(), t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case t.IsMapType(), t.IsObjectType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			e, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = e
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
}

// --- YAML ---

func loadYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	out, ok := normalizeYAML(raw).(map[string]any)
	if !ok || out == nil {
		return make(map[string]any), nil
	}
	return out, nil
}

// normalizeYAML makes every mapping a map[string]any, whatever key types the
// document used.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	default:
		return v
	}
}
