package defaultinput

import "sort"

// StripDefaults returns a deep copy of db.Value with every leaf and container
// that exists only because of a default removed, leaving what the caller
// originally supplied. Explicit nils supplied by the caller are kept.
//
// It is the inverse of ApplyArgWithMeta for persisting sparse input.
func StripDefaults(db Decoded[any]) any {
	if db.Presence.DefaultOnly("/") {
		return nil
	}
	out := cloneValue(db.Value)
	root, ok := out.(map[string]any)
	if !ok {
		return out
	}
	ptrs := db.Presence.Defaulted()
	// deepest first so emptied parents are seen after their children
	sort.Slice(ptrs, func(i, j int) bool { return len(ptrs[i]) > len(ptrs[j]) })
	for _, p := range ptrs {
		segs := splitPointer(p)
		if len(segs) == 0 {
			continue
		}
		container := root
		for _, seg := range segs[:len(segs)-1] {
			next, ok := container[seg].(map[string]any)
			if !ok {
				container = nil
				break
			}
			container = next
		}
		if container != nil {
			delete(container, segs[len(segs)-1])
		}
	}
	return root
}
