package transform

import (
	"context"
	"fmt"
	"strings"
)

// variantSep separates a function's base name from its variant suffix, as in
// "X__training" and "X__inference".
const variantSep = "__"

// Func is the Go body of a transform function.
type Func func(ctx context.Context, args Args) (any, error)

// Input declares one named parameter of a Function.
type Input struct {
	Name       string
	Default    any
	HasDefault bool
}

// Function is a named, pure unit of work in a pipeline module.
type Function struct {
	Name       string
	Doc        string
	Inputs     []Input
	Extract    []string
	Conditions []*Condition
	Fn         Func
}

// Option configures a Function at declaration time.
type Option func(f *Function)

// New declares a transform function.
func New(name string, fn Func, opts ...Option) *Function {
	f := &Function{Name: name, Fn: fn}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Inputs declares required inputs, in order.
func Inputs(names ...string) Option {
	return func(f *Function) {
		for _, n := range names {
			f.setInput(Input{Name: n})
		}
	}
}

// Default declares an input with a default value, or adds a default to an
// already declared input.
func Default(name string, value any) Option {
	return func(f *Function) {
		f.setInput(Input{Name: name, Default: value, HasDefault: true})
	}
}

// ExtractFields makes each named field of the function's map output
// available as its own graph node.
func ExtractFields(fields ...string) Option {
	return func(f *Function) {
		f.Extract = append(f.Extract, fields...)
	}
}

// Describe sets the human-readable documentation of the function.
func Describe(doc string) Option {
	return func(f *Function) {
		f.Doc = doc
	}
}

// WithCondition attaches pre-built conditional metadata.
func WithCondition(c *Condition) Option {
	return func(f *Function) {
		f.Conditions = append(f.Conditions, c)
	}
}

// When includes the function only when every key equals its value.
func When(b Bind) Option { return WithCondition(NewCondition(KindWhen, b)) }

// WhenNot includes the function only when every key differs from its value.
func WhenNot(b Bind) Option { return WithCondition(NewCondition(KindWhenNot, b)) }

// WhenIn includes the function only when every key is one of its values.
func WhenIn(b Bind) Option { return WithCondition(NewCondition(KindWhenIn, b)) }

// WhenNotIn includes the function only when every key is none of its values.
func WhenNotIn(b Bind) Option { return WithCondition(NewCondition(KindWhenNotIn, b)) }

// WhenFunc gates the function with an arbitrary predicate over the keys it names.
func WhenFunc(keys []string, fn func(cfg map[string]any) bool) Option {
	return WithCondition(NewCustomCondition(keys, fn))
}

func (f *Function) setInput(in Input) {
	for i := range f.Inputs {
		if f.Inputs[i].Name == in.Name {
			if in.HasDefault {
				f.Inputs[i].Default = in.Default
				f.Inputs[i].HasDefault = true
			}
			return
		}
	}
	f.Inputs = append(f.Inputs, in)
}

// BaseName returns the name without its variant suffix.
func (f *Function) BaseName() string {
	if i := strings.LastIndex(f.Name, variantSep); i > 0 {
		return f.Name[:i]
	}
	return f.Name
}

// Variant returns the variant suffix, or "" if the name has none.
func (f *Function) Variant() string {
	if i := strings.LastIndex(f.Name, variantSep); i > 0 {
		return f.Name[i+len(variantSep):]
	}
	return ""
}

// Conditional reports whether the function carries any conditional metadata.
func (f *Function) Conditional() bool {
	return len(f.Conditions) > 0
}

// Active reports whether every condition admits the configuration.
func (f *Function) Active(cfg map[string]any) bool {
	for _, c := range f.Conditions {
		if c == nil || !c.Resolve(cfg) {
			return false
		}
	}
	return true
}

// Input looks up a declared input by name.
func (f *Function) Input(name string) (Input, bool) {
	for _, in := range f.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Call runs the function body. Functions that extract fields must return a
// map containing every extracted field.
func (f *Function) Call(ctx context.Context, args Args) (any, error) {
	if f.Fn == nil {
		return nil, fmt.Errorf("function %q has no body", f.Name)
	}
	out, err := f.Fn(ctx, args)
	if err != nil {
		return nil, err
	}
	if len(f.Extract) == 0 {
		return out, nil
	}

	fields, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("function %q extracts fields but returned %T, want map[string]any", f.Name, out)
	}
	for _, name := range f.Extract {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("function %q did not return extracted field %q", f.Name, name)
		}
	}
	return fields, nil
}
