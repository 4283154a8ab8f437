package defaultinput

import "context"

// Func is the dynamic callable shape understood by the wrappers: positional
// arguments in, one result and an error out.
type Func func(ctx context.Context, args ...any) (any, error)

// WithDefaults returns a Func that applies set to its arguments and then calls
// fn with them. Apply failures are returned without calling fn; whatever fn
// returns, including its error, is passed back unchanged.
func WithDefaults(fn Func, set SchemeSet) Func {
	return func(ctx context.Context, args ...any) (any, error) {
		if set.Empty() {
			return fn(ctx, args...)
		}
		applied, err := Apply(args, set)
		if err != nil {
			return nil, err
		}
		return fn(ctx, applied...)
	}
}

// Enable wraps fn so that every call applies the defaults registered for id
// at call time.
func (r *Registry) Enable(id string, fn Func) Func {
	return func(ctx context.Context, args ...any) (any, error) {
		return WithDefaults(fn, r.Lookup(id))(ctx, args...)
	}
}

// EnableDefaultInput is Enable on the process-wide registry.
func EnableDefaultInput(id string, fn Func) Func {
	return func(ctx context.Context, args ...any) (any, error) {
		return Default().Enable(id, fn)(ctx, args...)
	}
}
