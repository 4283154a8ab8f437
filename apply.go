package defaultinput

import (
	"fmt"
	"reflect"

	"github.com/reoring/defaultinput/i18n"
)

// SchemeSet holds the optional default of each parameter position. A nil slot
// means the parameter at that position has no default.
type SchemeSet []*Scheme

// Params builds a SchemeSet from position/scheme pairs.
//
//	set := defaultinput.Params(map[int]defaultinput.Scheme{0: defaultinput.Scalar("Balavoine")})
func Params(byPos map[int]Scheme) SchemeSet {
	var ss SchemeSet
	for pos, s := range byPos {
		ss = ss.With(pos, s)
	}
	return ss
}

// With returns a copy of ss with s stored at pos, growing the set as needed.
// Negative positions are ignored.
func (ss SchemeSet) With(pos int, s Scheme) SchemeSet {
	if pos < 0 {
		return ss
	}
	out := make(SchemeSet, max(len(ss), pos+1))
	copy(out, ss)
	out[pos] = &s
	return out
}

// At returns the scheme registered for position i.
func (ss SchemeSet) At(i int) (Scheme, bool) {
	if i < 0 || i >= len(ss) || ss[i] == nil {
		return Scheme{}, false
	}
	return *ss[i], true
}

// Empty reports whether no position carries a scheme.
func (ss SchemeSet) Empty() bool {
	for _, s := range ss {
		if s != nil {
			return false
		}
	}
	return true
}

// Apply fills the missing parts of args from set and returns the argument
// list to forward. The returned slice is a copy grown to cover every position
// of set (absent trailing arguments become nil); structured arguments are
// mutated in place.
//
// Scalar schemes replace nil arguments only. Structured schemes add each leaf
// whose key is not already present in the argument, creating intermediate
// maps on the way; a nil argument is replaced by a new map first.
func Apply(args []any, set SchemeSet) ([]any, error) {
	return applyAll(args, set, nil)
}

// ApplyWithMeta is Apply that also reports, per JSON Pointer of the argument
// list (e.g. "/1/foo/bar"), whether each leaf was supplied or defaulted.
func ApplyWithMeta(args []any, set SchemeSet) (Decoded[[]any], error) {
	pm := PresenceMap{}
	out, err := applyAll(args, set, pm)
	return Decoded[[]any]{Value: out, Presence: pm}, err
}

// ApplyArg applies one scheme to one argument.
func ApplyArg(arg any, s Scheme) (any, error) {
	return applyArg(arg, s, nil)
}

// ApplyArgWithMeta is ApplyArg that also reports presence, keyed by JSON
// Pointers relative to the argument ("/" is the argument itself).
func ApplyArgWithMeta(arg any, s Scheme) (Decoded[any], error) {
	pm := PresenceMap{}
	v, err := applyArg(arg, s, func(p string, f Presence) { pm[p] |= f })
	return Decoded[any]{Value: v, Presence: pm}, err
}

func applyAll(args []any, set SchemeSet, pm PresenceMap) ([]any, error) {
	out := make([]any, max(len(args), len(set)))
	copy(out, args)
	for i := range set {
		s, ok := set.At(i)
		if !ok {
			continue
		}
		base := paramPointer(i)
		var mark func(string, Presence)
		if pm != nil {
			mark = func(p string, f Presence) {
				if p == "/" {
					pm[base] |= f
					return
				}
				pm[base+p] |= f
			}
		}
		v, err := applyArg(out[i], s, mark)
		if err != nil {
			return out, rebase(toIssues(err), base, i)
		}
		out[i] = v
	}
	return out, nil
}

func applyArg(arg any, s Scheme, mark func(string, Presence)) (any, error) {
	if mark == nil {
		mark = func(string, Presence) {}
	}
	if s.kind == KindScalar {
		if isNullish(arg) {
			mark("/", PresenceDefaultApplied)
			return cloneValue(s.value), nil
		}
		mark("/", PresenceSeen)
		return arg, nil
	}

	var target map[string]any
	if isNullish(arg) {
		target = map[string]any{}
		mark("/", PresenceDefaultApplied)
	} else {
		m, ok := arg.(map[string]any)
		if !ok {
			got := fmt.Sprintf("%T", arg)
			return arg, Issues{{
				Path:    "/",
				Code:    CodeInvalidType,
				Message: i18n.T(CodeInvalidType, nil),
				Hint:    "expected object, got " + got,
				Params:  map[string]any{"got": got},
			}}
		}
		target = m
		mark("/", PresenceSeen)
	}

	created := func(segs []string) { mark(pointerOf(segs), PresenceDefaultApplied) }
	for _, path := range Flatten(s) {
		leaf, _ := s.At(path)
		container, key, err := resolve(path, target, created)
		if err != nil {
			return target, err
		}
		ptr := path.Pointer()
		cur, own := container[key]
		if !own {
			container[key] = leaf.ToValue()
			mark(ptr, PresenceDefaultApplied)
			continue
		}
		mark(ptr, PresenceSeen)
		if cur == nil {
			mark(ptr, PresenceWasNull)
		}
	}
	return target, nil
}

// isNullish reports whether v is nil or a typed nil that stands for "absent".
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
