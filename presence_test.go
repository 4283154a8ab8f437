package defaultinput_test

import (
	"reflect"
	"testing"

	di "github.com/reoring/defaultinput"
)

func TestApplyArgWithMeta_Presence(t *testing.T) {
	s := mustScheme(t, map[string]any{
		"bar": "hello world",
		"foo": map[string]any{"x": 1, "y": 2},
		"nil": "d",
	})
	dm, err := di.ApplyArgWithMeta(map[string]any{"foo": map[string]any{"x": 5}, "nil": nil}, s)
	if err != nil {
		t.Fatalf("ApplyArgWithMeta: %v", err)
	}
	pm := dm.Presence
	if pm["/"]&di.PresenceSeen == 0 {
		t.Fatalf("root should be seen: %v", pm)
	}
	if !pm.DefaultOnly("/bar") || !pm.DefaultOnly("/foo/y") {
		t.Fatalf("expected /bar and /foo/y to be default-only: %v", pm)
	}
	if pm.DefaultOnly("/foo/x") || pm["/foo/x"]&di.PresenceSeen == 0 {
		t.Fatalf("/foo/x was supplied: %v", pm)
	}
	if pm["/nil"]&di.PresenceWasNull == 0 || pm.DefaultOnly("/nil") {
		t.Fatalf("/nil should be an explicit null: %v", pm)
	}
	if got := pm.Defaulted(); !reflect.DeepEqual(got, []string{"/bar", "/foo/y"}) {
		t.Fatalf("Defaulted = %v", got)
	}
}

func TestApplyWithMeta_PointersIncludeParameter(t *testing.T) {
	set := di.SchemeSet{}.
		With(0, di.Scalar("Balavoine")).
		With(1, mustScheme(t, map[string]any{"foo": map[string]any{"bar": 1}}))
	dm, err := di.ApplyWithMeta([]any{nil, map[string]any{}}, set)
	if err != nil {
		t.Fatalf("ApplyWithMeta: %v", err)
	}
	want := []string{"/0", "/1/foo", "/1/foo/bar"}
	if got := dm.Presence.Defaulted(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Defaulted = %v, want %v", got, want)
	}
	sub := dm.Presence.Under("/1")
	if sub["/"]&di.PresenceSeen == 0 || !sub.DefaultOnly("/foo/bar") {
		t.Fatalf("Under(/1) = %v", sub)
	}
}

func TestStripDefaults_RestoresSparseInput(t *testing.T) {
	s := mustScheme(t, map[string]any{
		"bar": "hello world",
		"foo": map[string]any{"bar": map[string]any{"value": 10}, "keep": true},
	})
	in := map[string]any{"foo": map[string]any{"keep": false}, "extra": nil}
	dm, err := di.ApplyArgWithMeta(in, s)
	if err != nil {
		t.Fatalf("ApplyArgWithMeta: %v", err)
	}
	got := di.StripDefaults(dm)
	assertValue(t, got, map[string]any{"foo": map[string]any{"keep": false}, "extra": nil})

	// the applied value itself is left alone
	if _, ok := dm.Value.(map[string]any)["bar"]; !ok {
		t.Fatalf("StripDefaults must not modify the decoded value")
	}
}

func TestStripDefaults_DefaultOnlyRoot(t *testing.T) {
	dm, err := di.ApplyArgWithMeta(nil, di.Scalar("x"))
	if err != nil {
		t.Fatalf("ApplyArgWithMeta: %v", err)
	}
	if got := di.StripDefaults(dm); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
