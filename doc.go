// Package defaultinput attaches default value schemes to function parameters
// and fills in whatever the caller left out, at call time.
//
// A Scheme is either a scalar (used when the argument is nil) or an ordered
// mapping of keys to nested schemes. Applying a structured scheme walks every
// leaf path ("foo.bar.value"), creates missing intermediate maps, and assigns
// the default only when the caller's map does not already hold that key.
// Caller-supplied values, explicit nils included, are never overwritten.
//
// Design policy:
//   - Keep the public API in the root package; token plumbing lives under internal/.
//   - Schemes are immutable and defaults are copied on every application, so no
//     two calls share mutable state.
//   - Failures are reported as Issues (JSON Pointer, code, message).
//
// Typical usage:
//
//	greet := defaultinput.WithDefaults(fn, defaultinput.SchemeSet{}.
//		With(1, defaultinput.Object().Field("bar", "hello world").MustBuild()))
//	out, err := greet(ctx, "Balavoine", map[string]any{})
//
//	s, err := defaultinput.ParseSchemeBytes([]byte(`{"foo":{"bar":{"value":10}}}`))
//	dm, err := defaultinput.ApplyArgWithMeta(arg, s)
//	sparse := defaultinput.StripDefaults(dm)
package defaultinput
