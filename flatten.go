package defaultinput

import "strings"

const _pathSep = "."

// LeafPath is the dotted address of one leaf inside a structured Scheme,
// for example "foo.bar.value".
type LeafPath string

// Segments splits the path into its keys.
func (p LeafPath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), _pathSep)
}

// Key returns the last segment, the key that holds the leaf value.
func (p LeafPath) Key() string {
	s := string(p)
	if i := strings.LastIndex(s, _pathSep); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Parent returns the path of the container holding the leaf ("" at the root).
func (p LeafPath) Parent() LeafPath {
	s := string(p)
	if i := strings.LastIndex(s, _pathSep); i >= 0 {
		return LeafPath(s[:i])
	}
	return ""
}

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p LeafPath) Pointer() string { return pointerOf(p.Segments()) }

// Flatten lists the leaf paths of a structured scheme, depth-first in key
// declaration order. Scalars have no leaf paths.
//
// A key whose value is an empty mapping is itself a leaf: it is reported as
// the bare key and its default is an empty map.
func Flatten(s Scheme) []LeafPath {
	if s.kind != KindStructured {
		return nil
	}
	var out []LeafPath
	for _, f := range s.fields {
		if f.Scheme.kind != KindStructured || len(f.Scheme.fields) == 0 {
			out = append(out, LeafPath(f.Key))
			continue
		}
		for _, child := range Flatten(f.Scheme) {
			out = append(out, LeafPath(f.Key+_pathSep+string(child)))
		}
	}
	return out
}
