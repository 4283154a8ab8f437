package benchmarks_test

import (
	"context"
	"testing"

	di "github.com/reoring/defaultinput"
)

func nestedScheme(tb testing.TB) di.Scheme {
	tb.Helper()
	s, err := di.Object().
		Field("foo", di.Object().
			Field("bar", di.Object().
				Field("options", di.Object().Field("levitate", true).Field("alert", false)).
				Field("value", "my world"))).
		Field("limits", di.Object().Field("cpu", 2).Field("memory", "1Gi")).
		Field("name", "Balavoine").
		Build()
	if err != nil {
		tb.Fatalf("scheme build failed: %v", err)
	}
	return s
}

func Benchmark_ApplyArg_Empty(b *testing.B) {
	s := nestedScheme(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := di.ApplyArg(map[string]any{}, s); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ApplyArg_Complete(b *testing.B) {
	s := nestedScheme(b)
	full, err := di.ApplyArg(nil, s)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := di.ApplyArg(full, s); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ApplyArgWithMeta(b *testing.B) {
	s := nestedScheme(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := di.ApplyArgWithMeta(map[string]any{"name": "x"}, s); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Call_WithDefaults(b *testing.B) {
	fn := di.WithDefaults(func(ctx context.Context, args ...any) (any, error) { return args[0], nil },
		di.SchemeSet{}.With(0, nestedScheme(b)))
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fn(ctx, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Call_Wrap(b *testing.B) {
	fn := di.MustWrap(func(opts map[string]any) int { return len(opts) },
		di.SchemeSet{}.With(0, nestedScheme(b)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = fn(nil)
	}
}
