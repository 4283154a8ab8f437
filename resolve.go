package defaultinput

import (
	"fmt"

	"github.com/reoring/defaultinput/i18n"
)

// Resolve walks root along every segment of path except the last and returns
// the container that should hold the leaf together with the leaf key.
//
// Absent or nil intermediate entries are replaced by empty maps. Existing
// non-nil entries are reused and never overwritten; if one is not a
// map[string]any the walk fails with an invalid_type issue located at that
// entry. Resolve does not decide whether the leaf gets assigned.
func Resolve(path LeafPath, root map[string]any) (map[string]any, string, error) {
	return resolve(path, root, nil)
}

// resolve is Resolve with a hook invoked for each intermediate map it creates.
func resolve(path LeafPath, root map[string]any, created func(segs []string)) (map[string]any, string, error) {
	if root == nil {
		return nil, "", singleIssue("/", CodeInvalidType, "expected object, got null")
	}
	segs := path.Segments()
	if len(segs) == 0 {
		return nil, "", singleIssue("/", CodeInvalidKey, "empty path")
	}
	container := root
	for i, seg := range segs[:len(segs)-1] {
		cur, ok := container[seg]
		if !ok || cur == nil {
			next := map[string]any{}
			container[seg] = next
			container = next
			if created != nil {
				created(segs[:i+1])
			}
			continue
		}
		next, ok := cur.(map[string]any)
		if !ok {
			got := fmt.Sprintf("%T", cur)
			return nil, "", Issues{{
				Path:    pointerOf(segs[:i+1]),
				Code:    CodeInvalidType,
				Message: i18n.T(CodeInvalidType, nil),
				Hint:    "expected object, got " + got,
				Params:  map[string]any{"got": got},
			}}
		}
		container = next
	}
	return container, segs[len(segs)-1], nil
}
