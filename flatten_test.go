package defaultinput_test

import (
	"reflect"
	"testing"

	di "github.com/reoring/defaultinput"
)

func TestFlatten_DeclarationOrder(t *testing.T) {
	s := di.Object().
		Field("foo", di.Object().
			Field("bar", di.Object().
				Field("options", di.Object().Field("levitate", true)).
				Field("value", "my world"))).
		Field("name", "x").
		MustBuild()
	want := []di.LeafPath{"foo.bar.options.levitate", "foo.bar.value", "name"}
	if got := di.Flatten(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten = %v, want %v", got, want)
	}
}

func TestFlatten_EmptyMappingIsLeaf(t *testing.T) {
	s := di.Object().Field("opts", di.Object()).Field("n", 1).MustBuild()
	want := []di.LeafPath{"opts", "n"}
	if got := di.Flatten(s); !reflect.DeepEqual(got, want) {
		t.Fatalf("Flatten = %v, want %v", got, want)
	}
	got, err := di.ApplyArg(map[string]any{}, s)
	if err != nil {
		t.Fatalf("ApplyArg: %v", err)
	}
	assertValue(t, got, map[string]any{"opts": map[string]any{}, "n": 1})
}

func TestFlatten_ScalarHasNoPaths(t *testing.T) {
	if got := di.Flatten(di.Scalar("x")); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := di.Flatten(di.Object().MustBuild()); len(got) != 0 {
		t.Fatalf("expected no paths, got %v", got)
	}
}

func TestLeafPath_Parts(t *testing.T) {
	p := di.LeafPath("a.b/c.d~e")
	if got := p.Segments(); !reflect.DeepEqual(got, []string{"a", "b/c", "d~e"}) {
		t.Fatalf("Segments = %v", got)
	}
	if p.Key() != "d~e" {
		t.Fatalf("Key = %q", p.Key())
	}
	if p.Parent() != "a.b/c" {
		t.Fatalf("Parent = %q", p.Parent())
	}
	if p.Pointer() != "/a/b~1c/d~0e" {
		t.Fatalf("Pointer = %q", p.Pointer())
	}
	if di.LeafPath("top").Parent() != "" {
		t.Fatalf("top-level parent should be empty")
	}
}

func TestResolve_CreatesMissingContainers(t *testing.T) {
	root := map[string]any{"keep": 1}
	container, key, err := di.Resolve("foo.bar.value", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "value" {
		t.Fatalf("key = %q", key)
	}
	container[key] = 10
	assertValue(t, root, map[string]any{"keep": 1, "foo": map[string]any{"bar": map[string]any{"value": 10}}})
}

func TestResolve_ReusesExistingContainers(t *testing.T) {
	inner := map[string]any{"x": 1}
	root := map[string]any{"foo": inner}
	container, key, err := di.Resolve("foo.y", root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	container[key] = 2
	if key != "y" || inner["y"] != 2 {
		t.Fatalf("expected the caller's map to be reused")
	}
}

func TestResolve_SingleSegmentReturnsRoot(t *testing.T) {
	root := map[string]any{}
	container, key, err := di.Resolve("bar", root)
	if err != nil || key != "bar" {
		t.Fatalf("Resolve: %v %q", err, key)
	}
	container[key] = 1
	if root["bar"] != 1 {
		t.Fatalf("expected root to be the container")
	}
}

func TestResolve_Errors(t *testing.T) {
	cases := []struct {
		name string
		path di.LeafPath
		root map[string]any
		code string
		at   string
	}{
		{"nil root", "a.b", nil, di.CodeInvalidType, "/"},
		{"empty path", "", map[string]any{}, di.CodeInvalidKey, "/"},
		{"scalar intermediate", "a.b.c", map[string]any{"a": map[string]any{"b": 3}}, di.CodeInvalidType, "/a/b"},
		{"slice intermediate", "a.b", map[string]any{"a": []any{}}, di.CodeInvalidType, "/a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := di.Resolve(tc.path, tc.root)
			iss, ok := di.AsIssues(err)
			if !ok || len(iss) != 1 {
				t.Fatalf("expected one issue, got %v", err)
			}
			if iss[0].Code != tc.code || iss[0].Path != tc.at {
				t.Fatalf("expected %s at %s, got %+v", tc.code, tc.at, iss[0])
			}
		})
	}
}
