package defaultinput

import (
	"sort"
	"strings"
)

// Presence is the bit flag collected by WithMeta APIs for each leaf path.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Leaf was supplied by the caller.
	PresenceWasNull                             // Caller supplied an explicit nil.
	PresenceDefaultApplied                      // Leaf (or created container) came from the default.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the post-application value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// DefaultOnly reports whether the value at pointer p exists only because of a
// default.
func (pm PresenceMap) DefaultOnly(p string) bool {
	v := pm[p]
	return v&PresenceDefaultApplied != 0 && v&PresenceSeen == 0 && v&PresenceWasNull == 0
}

// Defaulted lists, in sorted order, the pointers filled from defaults.
func (pm PresenceMap) Defaulted() []string {
	var out []string
	for k := range pm {
		if pm.DefaultOnly(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Under returns the entries below prefix with the prefix removed, so the
// presence of one parameter can be read out of an argument-list map.
func (pm PresenceMap) Under(prefix string) PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap)
	for k, v := range pm {
		switch {
		case k == prefix:
			out["/"] |= v
		case strings.HasPrefix(k, prefix+"/"):
			out[k[len(prefix):]] |= v
		}
	}
	return out
}
