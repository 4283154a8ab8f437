package defaultinput

import (
	"reflect"
	"strings"

	"github.com/reoring/defaultinput/i18n"
)

// Kind distinguishes scalar defaults from structured (mapping) defaults.
type Kind uint8

const (
	KindScalar     Kind = iota // A single value assigned as a whole.
	KindStructured             // An ordered mapping from key to nested Scheme.
)

func (k Kind) String() string {
	if k == KindStructured {
		return "structured"
	}
	return "scalar"
}

// _maxSchemeDepth bounds nesting so cyclic Go values cannot recurse forever.
const _maxSchemeDepth = 64

// Scheme is the default value declared for one parameter. It is either a
// scalar or an ordered mapping of keys to nested schemes. A Scheme is
// immutable: constructors copy their inputs and accessors return copies.
//
// The zero Scheme is the scalar nil.
type Scheme struct {
	kind   Kind
	value  any
	fields []Field
}

// Field is one key of a structured Scheme.
type Field struct {
	Key    string
	Scheme Scheme
}

// Scalar returns a scalar Scheme. Maps, slices, arrays and pointers in v are
// deep-copied here and again every time the value is assigned to an argument.
// Struct values are copied shallowly.
func Scalar(v any) Scheme { return Scheme{kind: KindScalar, value: cloneValue(v)} }

// Kind reports whether s is scalar or structured.
func (s Scheme) Kind() Kind { return s.kind }

// IsStructured reports whether s is a mapping.
func (s Scheme) IsStructured() bool { return s.kind == KindStructured }

// Value returns a copy of the scalar value; structured schemes return nil.
func (s Scheme) Value() any {
	if s.kind != KindScalar {
		return nil
	}
	return cloneValue(s.value)
}

// Len returns the number of direct keys of a structured scheme.
func (s Scheme) Len() int { return len(s.fields) }

// Fields returns the direct keys in declaration order.
func (s Scheme) Fields() []Field { return append([]Field(nil), s.fields...) }

// Keys returns the direct key names in declaration order.
func (s Scheme) Keys() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Key
	}
	return out
}

// Lookup returns the nested scheme stored under key.
func (s Scheme) Lookup(key string) (Scheme, bool) {
	for _, f := range s.fields {
		if f.Key == key {
			return f.Scheme, true
		}
	}
	return Scheme{}, false
}

// At navigates the scheme itself along path and returns the scheme found there.
func (s Scheme) At(path LeafPath) (Scheme, bool) {
	cur := s
	for _, seg := range path.Segments() {
		next, ok := cur.Lookup(seg)
		if !ok {
			return Scheme{}, false
		}
		cur = next
	}
	return cur, true
}

// ToValue materializes the scheme as plain Go values: structured schemes become
// fresh map[string]any trees, scalars are deep-copied.
func (s Scheme) ToValue() any {
	if s.kind == KindScalar {
		return cloneValue(s.value)
	}
	m := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		m[f.Key] = f.Scheme.ToValue()
	}
	return m
}

func (s Scheme) depth() int {
	if s.kind != KindStructured {
		return 0
	}
	d := 0
	for _, f := range s.fields {
		d = max(d, f.Scheme.depth())
	}
	return d + 1
}

// ---- builder ----

// ObjectBuilder assembles a structured Scheme keeping insertion order.
type ObjectBuilder struct {
	fields []pendingField
}

type pendingField struct {
	key string
	v   any
}

// Object starts a structured scheme.
//
//	s, err := defaultinput.Object().
//		Field("bar", "hello world").
//		Field("options", defaultinput.Object().Field("levitate", true)).
//		Build()
func Object() *ObjectBuilder { return &ObjectBuilder{} }

// Field appends key with value v. v may be a Scheme, a nested *ObjectBuilder,
// or any Go value accepted by FromValue. Problems are reported by Build.
func (b *ObjectBuilder) Field(key string, v any) *ObjectBuilder {
	b.fields = append(b.fields, pendingField{key: key, v: v})
	return b
}

// Build validates keys and returns the structured Scheme.
func (b *ObjectBuilder) Build() (Scheme, error) { return b.build(0) }

// MustBuild is Build that panics on error. Intended for package-level tables.
func (b *ObjectBuilder) MustBuild() Scheme {
	s, err := b.Build()
	if err != nil {
		panic("defaultinput.Object: " + err.Error())
	}
	return s
}

func (b *ObjectBuilder) build(depth int) (Scheme, error) {
	if depth > _maxSchemeDepth {
		return Scheme{}, singleIssue("/", CodeTooDeep, "")
	}
	fields := make([]Field, 0, len(b.fields))
	var iss Issues
	for _, pf := range b.fields {
		var (
			child Scheme
			err   error
		)
		switch v := pf.v.(type) {
		case *ObjectBuilder:
			child, err = v.build(depth + 1)
		default:
			child, err = fromValue(v, depth+1)
		}
		if err != nil {
			iss = AppendIssues(iss, rebaseKey(toIssues(err), pf.key)...)
			continue
		}
		fields, err = appendField(fields, pf.key, child)
		if err != nil {
			iss = AppendIssues(iss, toIssues(err)...)
		}
	}
	if len(iss) > 0 {
		return Scheme{}, iss
	}
	return Scheme{kind: KindStructured, fields: fields}, nil
}

// appendField validates key against the existing fields and appends it.
func appendField(fields []Field, key string, child Scheme) ([]Field, error) {
	ptr := "/" + escapePointer(key)
	if err := validateKey(key); err != nil {
		return fields, Issues{{Path: ptr, Code: CodeInvalidKey, Message: i18n.T(CodeInvalidKey, map[string]string{"key": key}), Hint: err.Error()}}
	}
	for _, f := range fields {
		if f.Key == key {
			return fields, Issues{{Path: ptr, Code: CodeDuplicateKey, Message: i18n.T(CodeDuplicateKey, map[string]string{"key": key})}}
		}
	}
	if child.depth() >= _maxSchemeDepth {
		return fields, singleIssue(ptr, CodeTooDeep, "")
	}
	return append(fields, Field{Key: key, Scheme: child}), nil
}

type keyError string

func (e keyError) Error() string { return string(e) }

func validateKey(key string) error {
	switch {
	case key == "":
		return keyError("key must not be empty")
	case strings.Contains(key, _pathSep):
		return keyError("key must not contain " + `"` + _pathSep + `"`)
	}
	return nil
}

func rebaseKey(iss Issues, key string) Issues {
	out := make(Issues, 0, len(iss))
	base := "/" + escapePointer(key)
	for _, it := range iss {
		if it.Path == "" || it.Path == "/" {
			it.Path = base
		} else {
			it.Path = base + it.Path
		}
		out = append(out, it)
	}
	return out
}

// ---- value copying ----

// cloneValue deep-copies containers so defaults are never aliased between
// calls. Scalars and structs are returned unchanged; beyond _maxSchemeDepth
// levels values are shared rather than copied.
func cloneValue(v any) any { return cloneDepth(v, 0) }

func cloneDepth(v any, depth int) any {
	if depth > _maxSchemeDepth {
		return v
	}
	switch t := v.(type) {
	case nil, string, bool, float64, int, int64:
		return v
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneDepth(val, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneDepth(val, depth+1)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if rv.IsNil() {
			return v
		}
	case reflect.Array:
	default:
		return v
	}
	return cloneReflect(rv, depth).Interface()
}

func cloneReflect(rv reflect.Value, depth int) reflect.Value {
	if depth > _maxSchemeDepth {
		return rv
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(cloneReflect(rv.Elem(), depth+1))
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value(), depth+1))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneReflect(rv.Index(i), depth+1))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneReflect(rv.Index(i), depth+1))
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(cloneReflect(rv.Elem(), depth+1))
		return out
	}
	return rv
}
