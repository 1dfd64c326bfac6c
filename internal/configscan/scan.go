package configscan

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

// Source is anything that can be enumerated as named transform functions.
// *transform.Module satisfies it.
type Source interface {
	Name() string
	Functions() []*transform.Function
}

// Result is the outcome of a single scan.
type Result struct {
	// Configurations is the set of configuration keys referenced by any
	// condition.
	Configurations map[string]struct{}
	// ConfigValues maps each key to every literal value bound to it, in the
	// order the conditions were declared. Repeats are kept.
	ConfigValues map[string][]any
}

func newResult() *Result {
	return &Result{
		Configurations: make(map[string]struct{}),
		ConfigValues:   make(map[string][]any),
	}
}

// Keys returns the referenced configuration keys in sorted order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.Configurations))
	for k := range r.Configurations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValueKeys returns the keys of ConfigValues in sorted order.
func (r *Result) ValueKeys() []string {
	keys := make([]string, 0, len(r.ConfigValues))
	for k := range r.ConfigValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FindConfigurations scans one source. It never calls the functions and
// never modifies them.
func FindConfigurations(ctx context.Context, src Source) (*Result, error) {
	res := newResult()
	if err := scan(ctx, src, res); err != nil {
		return nil, err
	}
	return res, nil
}

// FindAll scans several sources into one result, in the order given.
func FindAll(ctx context.Context, srcs ...Source) (*Result, error) {
	res := newResult()
	for _, src := range srcs {
		if err := scan(ctx, src, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func scan(ctx context.Context, src Source, res *Result) error {
	logger := ctxlog.FromContext(ctx)

	if isNil(src) {
		return &NotAModuleError{Reason: "source is nil"}
	}
	module := src.Name()
	logger.Debug("Scanning module for conditional metadata.", "module", module)

	for i, fn := range src.Functions() {
		if fn == nil {
			return &NotAModuleError{Reason: fmt.Sprintf("function entry #%d of '%s' is nil", i, module)}
		}
		if fn.Name == "" {
			return &NotAModuleError{Reason: fmt.Sprintf("function entry #%d of '%s' has no name", i, module)}
		}
		if !fn.Conditional() {
			continue
		}

		for ci, cond := range fn.Conditions {
			if cond == nil {
				return &MalformedMetadataError{Module: module, Function: fn.Name, Condition: ci, Reason: "condition is nil"}
			}
			scope, ok := cond.Scope()
			if !ok {
				return &MalformedMetadataError{
					Module:    module,
					Function:  fn.Name,
					Condition: ci,
					Reason:    cond.Kind().String() + " condition exposes no bound-value scope",
				}
			}

			for _, key := range cond.Keys() {
				res.Configurations[key] = struct{}{}
			}
			for _, b := range scope {
				res.ConfigValues[b.Key] = append(res.ConfigValues[b.Key], b.Value)
			}
			logger.Debug("Recorded condition.", "module", module, "function", fn.Name, "condition", cond.String())
		}
	}
	return nil
}

func isNil(src Source) bool {
	if src == nil {
		return true
	}
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
