package defaultinput

import (
	"sort"
	"strconv"
	"sync"

	"github.com/reoring/defaultinput/i18n"
)

// Registry associates a callable identity and a parameter position with a
// default Scheme. Registration normally completes before the first call;
// the mutex keeps late registration safe all the same.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]SchemeSet
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{entries: map[string]SchemeSet{}} }

// Register stores s as the default of parameter pos of the callable id,
// replacing any scheme already registered there.
func (r *Registry) Register(id string, pos int, s Scheme) error {
	if err := checkSlot(id, pos); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = r.entries[id].With(pos, s)
	return nil
}

// RegisterSet replaces every default of the callable id with set.
func (r *Registry) RegisterSet(id string, set SchemeSet) error {
	if err := checkSlot(id, 0); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if set.Empty() {
		delete(r.entries, id)
		return nil
	}
	r.entries[id] = append(SchemeSet(nil), set...)
	return nil
}

// Lookup returns the defaults registered for id, or nil when there are none.
// The returned set is a copy.
func (r *Registry) Lookup(id string) SchemeSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.entries[id]
	if !ok {
		return nil
	}
	return append(SchemeSet(nil), set...)
}

// Unregister drops every default of id.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Identities lists registered callables in sorted order.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func checkSlot(id string, pos int) error {
	switch {
	case id == "":
		return Issues{{Path: "/", Code: CodeInvalidParam, Message: i18n.T(CodeInvalidParam, nil), Hint: "empty callable identity"}}
	case pos < 0:
		return Issues{{
			Path:    "/" + strconv.Itoa(pos),
			Code:    CodeInvalidParam,
			Message: i18n.T(CodeInvalidParam, nil),
			Hint:    "negative parameter position",
			Params:  map[string]any{"param": pos},
		}}
	}
	return nil
}

// defaultReg is the process-wide registry used by DefaultScheme and
// EnableDefaultInput.
var (
	defaultMu  sync.RWMutex
	defaultReg = NewRegistry()
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultReg
}

// SetDefault overrides the process-wide registry; nil values are ignored.
func SetDefault(r *Registry) {
	if r == nil {
		return
	}
	defaultMu.Lock()
	defaultReg = r
	defaultMu.Unlock()
}

// DefaultScheme attaches value, converted with FromValue, as the default of
// parameter pos of the callable id in the process-wide registry.
//
//	func init() {
//		_ = defaultinput.DefaultScheme("greet", 1, map[string]any{"bar": "hello world"})
//	}
func DefaultScheme(id string, pos int, value any) error {
	s, err := FromValue(value)
	if err != nil {
		return err
	}
	return Default().Register(id, pos, s)
}
