package defaultinput

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/defaultinput/i18n"
)

// Issue codes
const (
	CodeInvalidType  = "invalid_type"
	CodeInvalidKey   = "invalid_key"
	CodeDuplicateKey = "duplicate_key"
	CodeTooDeep      = "too_deep"
	CodeInvalidParam = "invalid_param"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
	CodeInvalidTable = "invalid_table"
)

// Issue represents a single failure while building or applying a scheme.
type Issue struct {
	Path    string // JSON Pointer (for example: /1/foo/bar).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: what was expected at Path.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"param": 1, "got": "string"})
	// for i18n and diagnostics.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is reaches wrapped errors.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func singleIssue(path, code, hint string) Issues {
	return Issues{{Path: path, Code: code, Message: i18n.T(code, nil), Hint: hint}}
}

// toIssues converts any error into Issues, wrapping foreign errors as parse_error.
func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: err.Error(), Cause: err}}
}

// rebase prefixes every issue path with base and records the parameter index.
func rebase(iss Issues, base string, param int) Issues {
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		params := make(map[string]any, len(it.Params)+1)
		for k, v := range it.Params {
			params[k] = v
		}
		params["param"] = param
		it.Params = params
		out = append(out, it)
	}
	return out
}
