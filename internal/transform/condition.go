package transform

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind identifies how a Condition decides membership.
type Kind int

const (
	// KindWhen requires every bound key to equal its bound value.
	KindWhen Kind = iota
	// KindWhenNot requires every bound key to differ from its bound value.
	KindWhenNot
	// KindWhenIn requires every bound key to be one of its bound values.
	KindWhenIn
	// KindWhenNotIn requires every bound key to be none of its bound values.
	KindWhenNotIn
	// KindCustom delegates to an opaque Go predicate with no bound scope.
	KindCustom
)

// String returns the declaration-site spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindWhen:
		return "when"
	case KindWhenNot:
		return "when_not"
	case KindWhenIn:
		return "when_in"
	case KindWhenNotIn:
		return "when_not_in"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Bind is the literal key/value scope written at a condition's declaration
// site, e.g. Bind{"mode": []any{"training"}}.
type Bind map[string]any

// Binding is one entry of a condition's bound-value scope.
type Binding struct {
	Key   string
	Value any
}

// Condition is the conditional metadata attached to a Function. A function
// takes part in a graph only when all of its conditions resolve to true for
// the run's configuration.
type Condition struct {
	kind   Kind
	keys   []string
	scope  []Binding
	custom func(cfg map[string]any) bool
}

// NewCondition builds a config-membership condition of the given kind from
// its declaration-site bindings. Bindings are recorded in key order and
// copied, so later changes to bind do not affect the condition.
func NewCondition(kind Kind, bind Bind) *Condition {
	keys := make([]string, 0, len(bind))
	for k := range bind {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scope := make([]Binding, 0, len(keys))
	for _, k := range keys {
		scope = append(scope, Binding{Key: k, Value: cloneValue(bind[k])})
	}
	return &Condition{kind: kind, keys: keys, scope: scope}
}

// NewCustomCondition wraps an arbitrary predicate. It records which keys the
// predicate reads but carries no bound-value scope, so it cannot be reflected
// on by configscan.
func NewCustomCondition(keys []string, fn func(cfg map[string]any) bool) *Condition {
	return &Condition{
		kind:   KindCustom,
		keys:   append([]string(nil), keys...),
		custom: fn,
	}
}

// Kind returns the condition's kind.
func (c *Condition) Kind() Kind {
	return c.kind
}

// Keys returns the configuration keys this condition references.
func (c *Condition) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Scope returns a deep copy of the literal bound-value scope. ok is false
// when the condition exposes no scope (custom predicates and zero-value
// conditions).
func (c *Condition) Scope() (scope []Binding, ok bool) {
	if c.scope == nil {
		return nil, false
	}
	scope = make([]Binding, len(c.scope))
	for i, b := range c.scope {
		scope[i] = Binding{Key: b.Key, Value: cloneValue(b.Value)}
	}
	return scope, true
}

// Validate reports declaration mistakes that would make Resolve meaningless.
func (c *Condition) Validate() error {
	switch c.kind {
	case KindCustom:
		if c.custom == nil {
			return fmt.Errorf("custom condition has no predicate")
		}
		return nil
	case KindWhen, KindWhenNot, KindWhenIn, KindWhenNotIn:
	default:
		return fmt.Errorf("unknown condition kind %s", c.kind)
	}

	if len(c.scope) == 0 {
		return fmt.Errorf("%s condition binds no configuration keys", c.kind)
	}
	if c.kind == KindWhenIn || c.kind == KindWhenNotIn {
		for _, b := range c.scope {
			if !isCollection(b.Value) {
				return fmt.Errorf("%s condition on %q needs a list of values, got %T", c.kind, b.Key, b.Value)
			}
		}
	}
	return nil
}

// Resolve reports whether the condition admits the given configuration.
// Missing configuration keys compare as nil.
func (c *Condition) Resolve(cfg map[string]any) bool {
	if c.kind == KindCustom {
		return c.custom != nil && c.custom(cfg)
	}

	for _, b := range c.scope {
		got := cfg[b.Key]
		var ok bool
		switch c.kind {
		case KindWhen:
			ok = valuesEqual(got, b.Value)
		case KindWhenNot:
			ok = !valuesEqual(got, b.Value)
		case KindWhenIn:
			ok = contains(b.Value, got)
		case KindWhenNotIn:
			ok = !contains(b.Value, got)
		}
		if !ok {
			return false
		}
	}
	return len(c.scope) > 0
}

// String renders the condition the way it was declared.
func (c *Condition) String() string {
	if c.kind == KindCustom {
		return fmt.Sprintf("custom(%v)", c.keys)
	}
	s := c.kind.String() + "("
	for i, b := range c.scope {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", b.Key, b.Value)
	}
	return s + ")"
}

// cloneValue deep-copies slices, arrays and maps so bound values never share
// memory with the caller. Other values are returned as is.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		inner := cloneReflect(rv.Elem())
		out := reflect.New(rv.Type()).Elem()
		out.Set(inner)
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	default:
		return rv
	}
}

func isCollection(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func contains(collection, v any) bool {
	if !isCollection(collection) {
		return false
	}
	rv := reflect.ValueOf(collection)
	for i := 0; i < rv.Len(); i++ {
		if valuesEqual(rv.Index(i).Interface(), v) {
			return true
		}
	}
	return false
}

// valuesEqual compares configuration values. Numbers compare by value because
// HCL and YAML decoding do not agree on Go numeric types.
func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
