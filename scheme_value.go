package defaultinput

import (
	"reflect"
	"sort"
)

// FromValue converts a plain Go value into a Scheme.
//
//   - a Scheme or *ObjectBuilder is used as-is
//   - maps with string keys become structured schemes; Go maps have no
//     insertion order, so keys are sorted
//   - every other value (including nil, slices and structs) becomes a scalar
//
// Nesting deeper than 64 levels, which includes self-referencing maps, fails
// with a too_deep issue.
func FromValue(v any) (Scheme, error) { return fromValue(v, 0) }

// MustFromValue is FromValue that panics on error.
func MustFromValue(v any) Scheme {
	s, err := FromValue(v)
	if err != nil {
		panic("defaultinput.FromValue: " + err.Error())
	}
	return s
}

func fromValue(v any, depth int) (Scheme, error) {
	if depth > _maxSchemeDepth {
		return Scheme{}, singleIssue("/", CodeTooDeep, "")
	}
	switch t := v.(type) {
	case Scheme:
		return t, nil
	case *ObjectBuilder:
		return t.build(depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return structuredFrom(keys, func(k string) any { return t[k] }, depth)
	case nil:
		return Scalar(nil), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		if rv.IsNil() {
			return Scalar(nil), nil
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		return structuredFrom(keys, func(k string) any { return byKey[k].Interface() }, depth)
	}
	return Scalar(v), nil
}

func structuredFrom(keys []string, get func(string) any, depth int) (Scheme, error) {
	fields := make([]Field, 0, len(keys))
	var iss Issues
	for _, k := range keys {
		child, err := fromValue(get(k), depth+1)
		if err != nil {
			iss = AppendIssues(iss, rebaseKey(toIssues(err), k)...)
			// a cycle repeats the same failure at every level; keep only the first
			if ii, _ := AsIssues(err); len(ii) > 0 && ii[0].Code == CodeTooDeep {
				return Scheme{}, iss
			}
			continue
		}
		fields, err = appendField(fields, k, child)
		if err != nil {
			iss = AppendIssues(iss, toIssues(err)...)
		}
	}
	if len(iss) > 0 {
		return Scheme{}, iss
	}
	return Scheme{kind: KindStructured, fields: fields}, nil
}
