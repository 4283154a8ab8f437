package defaultinput_test

import (
	"context"
	"errors"
	"testing"

	di "github.com/reoring/defaultinput"
)

func TestWithDefaults_AppliesBeforeCall(t *testing.T) {
	set := di.SchemeSet{}.
		With(0, di.Scalar("Balavoine")).
		With(1, mustScheme(t, map[string]any{"bar": "hello world"}))
	var seen []any
	fn := di.WithDefaults(func(ctx context.Context, args ...any) (any, error) {
		seen = args
		return "ok", nil
	}, set)

	out, err := fn(context.Background())
	if err != nil || out != "ok" {
		t.Fatalf("call: %v %v", out, err)
	}
	assertValue(t, seen, []any{"Balavoine", map[string]any{"bar": "hello world"}})
}

func TestWithDefaults_ReturnsFunctionError(t *testing.T) {
	boom := errors.New("boom")
	fn := di.WithDefaults(func(ctx context.Context, args ...any) (any, error) {
		return 7, boom
	}, di.SchemeSet{}.With(0, di.Scalar(1)))
	out, err := fn(context.Background())
	if !errors.Is(err, boom) || out != 7 {
		t.Fatalf("expected fn result to pass through, got %v %v", out, err)
	}
}

func TestWithDefaults_ApplyErrorSkipsCall(t *testing.T) {
	called := false
	fn := di.WithDefaults(func(ctx context.Context, args ...any) (any, error) {
		called = true
		return nil, nil
	}, di.SchemeSet{}.With(0, mustScheme(t, map[string]any{"a": 1})))
	_, err := fn(context.Background(), "not an object")
	if err == nil || called {
		t.Fatalf("expected error without calling fn (called=%v, err=%v)", called, err)
	}
	if iss, ok := di.AsIssues(err); !ok || iss[0].Path != "/0" {
		t.Fatalf("unexpected issues: %v", err)
	}
}

func TestEnable_ReadsRegistryAtCallTime(t *testing.T) {
	r := di.NewRegistry()
	fn := r.Enable("late", func(ctx context.Context, args ...any) (any, error) { return args[0], nil })

	out, err := fn(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("without registration: %v %v", out, err)
	}
	_ = r.Register("late", 0, di.Scalar("now"))
	out, err = fn(context.Background(), nil)
	if err != nil || out != "now" {
		t.Fatalf("after registration: %v %v", out, err)
	}
}
