package defaultinput

import (
	"fmt"
	"reflect"

	"github.com/reoring/defaultinput/i18n"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	objType   = reflect.TypeOf(map[string]any(nil))
)

// Wrap returns a function with the same signature as fn that applies set to
// its arguments before delegating to fn. F must be a func type.
//
// Go has no "undefined", so only parameters that can be nil are defaultable:
//
//   - interfaces (any) accept scalar and structured schemes
//   - map types with map[string]any as underlying type accept structured schemes,
//     and scalar schemes whose default converts to the map type
//   - pointers accept scalar schemes; the default is converted to the element
//     type and a new pointer is passed
//   - slices accept scalar schemes whose default converts to the slice type
//
// Anything else, and positions beyond the parameter list or on a variadic
// parameter, is rejected here with an invalid_param issue.
//
// When applying fails at call time the issues are returned through fn's
// trailing error result if it has one; otherwise the wrapper panics with them.
func Wrap[F any](fn F, set SchemeSet) (F, error) {
	var zero F
	fv := reflect.ValueOf(fn)
	ft := reflect.TypeOf((*F)(nil)).Elem()
	if ft.Kind() != reflect.Func || !fv.IsValid() || fv.IsNil() {
		return zero, paramIssue(-1, "expected a non-nil function, got "+ft.String())
	}
	adapters, err := adaptParams(ft, set)
	if err != nil {
		return zero, err
	}
	if len(adapters) == 0 {
		return fn, nil
	}
	returnsErr := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType

	wrapped := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		for _, ad := range adapters {
			v, err := ApplyArg(ad.toAny(in[ad.pos]), ad.scheme)
			if err == nil {
				in[ad.pos], err = ad.fromAny(v)
			}
			if err != nil {
				var callErr error = rebase(toIssues(err), paramPointer(ad.pos), ad.pos)
				if !returnsErr {
					panic(callErr)
				}
				out := make([]reflect.Value, ft.NumOut())
				for i := range out {
					out[i] = reflect.Zero(ft.Out(i))
				}
				out[len(out)-1] = reflect.ValueOf(&callErr).Elem()
				return out
			}
		}
		if ft.IsVariadic() {
			return fv.CallSlice(in)
		}
		return fv.Call(in)
	})
	return wrapped.Interface().(F), nil
}

// MustWrap is Wrap that panics on error.
func MustWrap[F any](fn F, set SchemeSet) F {
	w, err := Wrap(fn, set)
	if err != nil {
		panic("defaultinput.Wrap: " + err.Error())
	}
	return w
}

// WrapRegistered wraps fn with the defaults registered for id in r. The set is
// read once, here, so registration must be complete before wrapping.
func WrapRegistered[F any](r *Registry, id string, fn F) (F, error) {
	return Wrap(fn, r.Lookup(id))
}

type paramAdapter struct {
	pos     int
	scheme  Scheme
	toAny   func(reflect.Value) any
	fromAny func(any) (reflect.Value, error)
}

func adaptParams(ft reflect.Type, set SchemeSet) ([]paramAdapter, error) {
	var (
		out []paramAdapter
		iss Issues
	)
	for pos := range set {
		s, ok := set.At(pos)
		if !ok {
			continue
		}
		ad, err := adaptParam(ft, pos, s)
		if err != nil {
			iss = AppendIssues(iss, toIssues(err)...)
			continue
		}
		out = append(out, ad)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func adaptParam(ft reflect.Type, pos int, s Scheme) (paramAdapter, error) {
	if pos >= ft.NumIn() {
		return paramAdapter{}, paramIssue(pos, fmt.Sprintf("function has %d parameters", ft.NumIn()))
	}
	if ft.IsVariadic() && pos == ft.NumIn()-1 {
		return paramAdapter{}, paramIssue(pos, "variadic parameters cannot carry a default")
	}
	t := ft.In(pos)
	ad := paramAdapter{pos: pos, scheme: s, toAny: nilAsAbsent}

	switch t.Kind() {
	case reflect.Interface:
		if s.IsStructured() {
			if !objType.Implements(t) {
				return ad, paramIssue(pos, "map[string]any does not implement "+t.String())
			}
		} else if s.value != nil && !reflect.TypeOf(s.value).Implements(t) {
			return ad, paramIssue(pos, fmt.Sprintf("default of type %T does not implement %s", s.value, t))
		}
		ad.fromAny = func(v any) (reflect.Value, error) {
			if v == nil {
				return reflect.Zero(t), nil
			}
			return reflect.ValueOf(v), nil
		}
	case reflect.Map:
		if s.IsStructured() {
			if !t.ConvertibleTo(objType) {
				return ad, paramIssue(pos, "structured default needs map[string]any, got "+t.String())
			}
			ad.toAny = func(v reflect.Value) any {
				if v.IsNil() {
					return nil
				}
				return v.Convert(objType).Interface()
			}
		} else if err := checkConvertible(pos, s.value, t); err != nil {
			return ad, err
		}
		ad.fromAny = convertTo(t)
	case reflect.Slice:
		if s.IsStructured() {
			return ad, paramIssue(pos, "structured default needs map[string]any, got "+t.String())
		}
		if err := checkConvertible(pos, s.value, t); err != nil {
			return ad, err
		}
		ad.fromAny = convertTo(t)
	case reflect.Pointer:
		if s.IsStructured() {
			return ad, paramIssue(pos, "structured default needs map[string]any, got "+t.String())
		}
		if s.value != nil && reflect.TypeOf(s.value) != t {
			if err := checkConvertible(pos, s.value, t.Elem()); err != nil {
				return ad, err
			}
		}
		ad.fromAny = func(v any) (reflect.Value, error) {
			if v == nil {
				return reflect.Zero(t), nil
			}
			rv := reflect.ValueOf(v)
			// Either the caller's pointer or a fresh copy made by ApplyArg.
			if rv.Type() == t {
				return rv, nil
			}
			p := reflect.New(t.Elem())
			p.Elem().Set(rv.Convert(t.Elem()))
			return p, nil
		}
	default:
		return ad, paramIssue(pos, "parameter of type "+t.String()+" can never be absent")
	}
	return ad, nil
}

func nilAsAbsent(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func convertTo(t reflect.Type) func(any) (reflect.Value, error) {
	return func(v any) (reflect.Value, error) {
		if v == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(v).Convert(t), nil
	}
}

// checkConvertible rejects defaults that reflect would convert lossily or
// surprisingly (such as int to string).
func checkConvertible(pos int, v any, t reflect.Type) error {
	if v == nil {
		return nil
	}
	vt := reflect.TypeOf(v)
	if !vt.ConvertibleTo(t) || (t.Kind() == reflect.String && vt.Kind() != reflect.String) {
		return paramIssue(pos, fmt.Sprintf("default of type %s does not convert to %s", vt, t))
	}
	return nil
}

func paramIssue(pos int, hint string) Issues {
	path := "/"
	if pos >= 0 {
		path = paramPointer(pos)
	}
	return Issues{{
		Path:    path,
		Code:    CodeInvalidParam,
		Message: i18n.T(CodeInvalidParam, nil),
		Hint:    hint,
		Params:  map[string]any{"param": pos},
	}}
}
