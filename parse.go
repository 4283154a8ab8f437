package defaultinput

import (
	"errors"
	"io"

	"github.com/reoring/defaultinput/i18n"
	eng "github.com/reoring/defaultinput/internal/engine"
)

// ParseScheme reads one JSON document from src and converts it into a Scheme,
// keeping object keys in document order. Objects become structured schemes;
// every other value (arrays included) becomes a scalar.
func ParseScheme(src Source, opts ...ParseOpt) (Scheme, error) {
	opt := lastOpt(opts)
	if opt.MaxDepth <= 0 || opt.MaxDepth > _maxSchemeDepth {
		opt.MaxDepth = _maxSchemeDepth
	}
	ts, conv := enforce(src, opt)
	node, err := eng.DecodeTree(ts, conv)
	if err != nil {
		return Scheme{}, engineIssues(err)
	}
	if err := expectEOF(ts); err != nil {
		return Scheme{}, err
	}
	return schemeFromNode(node, nil)
}

// _maxDocumentDepth bounds recursion when decoding argument documents.
const _maxDocumentDepth = 1024

// ParseSchemeBytes is ParseScheme over a byte slice.
func ParseSchemeBytes(data []byte, opts ...ParseOpt) (Scheme, error) {
	return ParseScheme(JSONBytes(data), opts...)
}

// DecodeJSON reads one JSON document from src into plain Go values
// (map[string]any, []any, string, bool, nil and numbers per NumberMode),
// enforcing the same duplicate-key, depth and size limits as ParseScheme.
// It is the argument-side counterpart of ParseScheme. A zero MaxDepth still
// stops at _maxDocumentDepth levels.
func DecodeJSON(src Source, opts ...ParseOpt) (any, error) {
	opt := lastOpt(opts)
	if opt.MaxDepth <= 0 || opt.MaxDepth > _maxDocumentDepth {
		opt.MaxDepth = _maxDocumentDepth
	}
	ts, conv := enforce(src, opt)
	v, err := eng.DecodeValue(ts, conv)
	if err != nil {
		return nil, engineIssues(err)
	}
	if err := expectEOF(ts); err != nil {
		return nil, err
	}
	return v, nil
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func enforce(src Source, opt ParseOpt) (eng.TokenSource, eng.NumberConv) {
	var sink func(eng.SimpleIssue)
	if opt.Warn != nil && opt.Strictness.OnDuplicateKey == Warn {
		sink = func(si eng.SimpleIssue) {
			if si.Code == CodeDuplicateKey {
				opt.Warn(engineIssue(si))
			}
		}
	}
	ts := eng.WrapWithEnforcement(engineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	conv := eng.JSONNumber
	if opt.NumberMode == NumberFloat64 {
		conv = eng.Float64
	}
	return ts, conv
}

func expectEOF(ts eng.TokenSource) error {
	_, err := ts.NextToken()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return singleIssue("/", CodeParseError, "trailing data after document")
}

// schemeFromNode converts a decoded tree; duplicate keys that survived a
// Warn/Ignore policy keep their last value at the first position.
func schemeFromNode(n eng.Node, segs []string) (Scheme, error) {
	if !n.Object {
		return Scalar(n.Value), nil
	}
	fields := make([]Field, 0, len(n.Keys))
	index := make(map[string]int, len(n.Keys))
	for i, k := range n.Keys {
		child, err := schemeFromNode(n.Fields[i], append(segs, k))
		if err != nil {
			return Scheme{}, err
		}
		if at, dup := index[k]; dup {
			fields[at].Scheme = child
			continue
		}
		if err := validateKey(k); err != nil {
			return Scheme{}, Issues{{
				Path:    pointerOf(append(segs, k)),
				Code:    CodeInvalidKey,
				Message: i18n.T(CodeInvalidKey, map[string]string{"key": k}),
				Hint:    err.Error(),
			}}
		}
		index[k] = len(fields)
		fields = append(fields, Field{Key: k, Scheme: child})
	}
	return Scheme{kind: KindStructured, fields: fields}, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Ignore:
		return eng.DupIgnore
	default:
		return eng.DupError
	}
}

func engineIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{engineIssue(ie.SimpleIssue)}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return singleIssue("/", CodeParseError, "unexpected end of input")
	}
	return toIssues(err)
}

func engineIssue(si eng.SimpleIssue) Issue {
	var data map[string]string
	if si.Code == CodeDuplicateKey {
		if segs := splitPointer(si.Path); len(segs) > 0 {
			data = map[string]string{"key": segs[len(segs)-1]}
		}
	}
	return Issue{Path: si.Path, Code: si.Code, Message: i18n.T(si.Code, data), Hint: si.Message}
}
