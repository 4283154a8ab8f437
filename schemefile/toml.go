package schemefile

import (
	"sort"

	"github.com/BurntSushi/toml"

	di "github.com/reoring/defaultinput"
)

// LoadTOML parses a TOML scheme table:
//
//	[[functions]]
//	id = "greet"
//
//	[[functions.params]]
//	position = 1
//	default = { bar = "hello world" }
//
// TOML decodes into Go maps, so key order is recovered from the order in
// which keys first appear in the document.
func LoadTOML(data []byte) (*Table, error) {
	var generic map[string]any
	md, err := toml.Decode(string(data), &generic)
	if err != nil {
		return nil, parseIssues(err)
	}
	normalized, err := normalize(generic)
	if err != nil {
		return nil, parseIssues(err)
	}
	if err := validate(normalized); err != nil {
		return nil, err
	}
	orders := defaultKeyOrders(md.Keys())
	offsets := paramOffsets(generic)
	return build(normalized, func(fi, pj int) (di.Scheme, error) {
		fn, _ := item(generic["functions"], fi).(map[string]any)
		p, _ := item(fn["params"], pj).(map[string]any)
		var order map[string]int
		if n := offsets[fi] + pj; n < len(orders) {
			order = orders[n]
		}
		return schemeFromTOML(p["default"], "", order)
	})
}

// defaultKeyOrders splits the document keys into one ranking per default
// value, in document order. Every param carries exactly one default, so the
// n-th ranking belongs to the n-th param of the table. Keys inside a ranking
// are relative to the default itself.
func defaultKeyOrders(keys []toml.Key) []map[string]int {
	var (
		orders []map[string]int
		header bool
	)
	for i, k := range keys {
		switch {
		case len(k) == 2 && k[0] == "functions" && k[1] == "params":
			header = true
		case len(k) >= 3 && k[0] == "functions" && k[1] == "params" && k[2] == "default":
			// default = {...}, [functions.params.default] or the first
			// dotted default.x key of a param.
			if len(k) == 3 || header {
				orders = append(orders, map[string]int{})
				header = false
			}
			if len(k) == 3 || len(orders) == 0 {
				continue
			}
			name := k[3:].String()
			if _, ok := orders[len(orders)-1][name]; !ok {
				orders[len(orders)-1][name] = i
			}
		}
	}
	return orders
}

// paramOffsets returns, per function, the number of params declared by the
// functions before it.
func paramOffsets(doc map[string]any) []int {
	var out []int
	total := 0
	for fi := 0; ; fi++ {
		fn, ok := item(doc["functions"], fi).(map[string]any)
		if !ok {
			return out
		}
		out = append(out, total)
		total += length(fn["params"])
	}
}

func schemeFromTOML(v any, prefix string, order map[string]int) (di.Scheme, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return di.Scalar(v), nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	rank := func(k string) int {
		if i, ok := order[join(prefix, k)]; ok {
			return i
		}
		return len(order)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	b := di.Object()
	for _, k := range keys {
		child, err := schemeFromTOML(m[k], join(prefix, k), order)
		if err != nil {
			return di.Scheme{}, err
		}
		b.Field(k, child)
	}
	return b.Build()
}

// join appends one key to a dotted TOML key path.
func join(prefix, k string) string {
	if prefix == "" {
		return quoteKey(k)
	}
	return prefix + "." + quoteKey(k)
}

// quoteKey renders one key the way toml.Key.String does.
func quoteKey(k string) string {
	return toml.Key{k}.String()
}

func length(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case []map[string]any:
		return len(t)
	}
	return 0
}

// item indexes the slices produced by the TOML decoder: inline arrays
// decode to []any, arrays of tables to []map[string]any.
func item(v any, i int) any {
	switch t := v.(type) {
	case []any:
		if i < len(t) {
			return t[i]
		}
	case []map[string]any:
		if i < len(t) {
			return t[i]
		}
	}
	return nil
}
