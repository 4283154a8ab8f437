// Package schemefile loads default scheme tables from YAML, JSON or TOML
// documents and registers them with a defaultinput.Registry.
//
// A table lists callables and, per parameter position, the default to apply:
//
//	functions:
//	  - id: greet
//	    params:
//	      - position: 1
//	        default: {bar: hello world}
//
// Mapping keys inside a default keep their document order.
package schemefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/i18n"
)

// Table is a validated scheme table.
type Table struct {
	Functions []Function
}

// Function holds the defaults declared for one callable identity.
type Function struct {
	ID     string
	Params []Param
}

// Param is the default of one parameter position.
type Param struct {
	Position int
	Default  di.Scheme
}

// Set returns the SchemeSet declared for id, merging every entry with that id.
func (t *Table) Set(id string) di.SchemeSet {
	var set di.SchemeSet
	for _, fn := range t.Functions {
		if fn.ID != id {
			continue
		}
		for _, p := range fn.Params {
			set = set.With(p.Position, p.Default)
		}
	}
	return set
}

// IDs lists the callable identities in table order, without repeats.
func (t *Table) IDs() []string {
	seen := map[string]bool{}
	var out []string
	for _, fn := range t.Functions {
		if !seen[fn.ID] {
			seen[fn.ID] = true
			out = append(out, fn.ID)
		}
	}
	return out
}

// Register adds every default of the table to r.
func (t *Table) Register(r *di.Registry) error {
	for _, fn := range t.Functions {
		for _, p := range fn.Params {
			if err := r.Register(fn.ID, p.Position, p.Default); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a table file, choosing the format from its extension
// (.yaml, .yml, .json or .toml).
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scheme table: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".json":
		return LoadJSON(data)
	case ".toml":
		return LoadTOML(data)
	default:
		return nil, fmt.Errorf("scheme table %s: unsupported extension %q", path, ext)
	}
}

// paramDefault produces the ordered default of functions[fi].params[pj].
type paramDefault func(fi, pj int) (di.Scheme, error)

// build walks a schema-validated generic document and assembles the Table.
func build(doc any, defaults paramDefault) (*Table, error) {
	root, _ := doc.(map[string]any)
	fns, _ := root["functions"].([]any)
	t := &Table{Functions: make([]Function, 0, len(fns))}
	seen := map[string]string{}
	var iss di.Issues
	for fi, f := range fns {
		fm, _ := f.(map[string]any)
		fn := Function{ID: fmt.Sprint(fm["id"])}
		params, _ := fm["params"].([]any)
		for pj, p := range params {
			pm, _ := p.(map[string]any)
			ptr := "/functions/" + strconv.Itoa(fi) + "/params/" + strconv.Itoa(pj)
			pos, err := position(pm["position"])
			if err != nil {
				iss = append(iss, tableIssue(ptr+"/position", di.CodeInvalidTable, err.Error()))
				continue
			}
			slot := fn.ID + "\x00" + strconv.Itoa(pos)
			if first, dup := seen[slot]; dup {
				iss = append(iss, di.Issue{
					Path:    ptr + "/position",
					Code:    di.CodeDuplicateKey,
					Message: i18n.T(di.CodeDuplicateKey, map[string]string{"key": fn.ID + "#" + strconv.Itoa(pos)}),
					Hint:    "already declared at " + first,
				})
				continue
			}
			seen[slot] = ptr
			s, err := defaults(fi, pj)
			if err != nil {
				iss = append(iss, rebase(err, ptr+"/default")...)
				continue
			}
			fn.Params = append(fn.Params, Param{Position: pos, Default: s})
		}
		t.Functions = append(t.Functions, fn)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

func position(v any) (int, error) {
	switch n := v.(type) {
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("position must be an integer: %w", err)
		}
		return int(i), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("position must be an integer, got %v", v)
}

func tableIssue(path, code, hint string) di.Issue {
	return di.Issue{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}
}

func parseIssues(err error) di.Issues {
	if iss, ok := di.AsIssues(err); ok {
		return iss
	}
	it := tableIssue("/", di.CodeParseError, err.Error())
	it.Cause = err
	return di.Issues{it}
}

// rebase moves the issues of a default scheme under base.
func rebase(err error, base string) di.Issues {
	iss := parseIssues(err)
	out := make(di.Issues, 0, len(iss))
	for _, it := range iss {
		if it.Path == "" || it.Path == "/" {
			it.Path = base
		} else {
			it.Path = base + it.Path
		}
		out = append(out, it)
	}
	return out
}
