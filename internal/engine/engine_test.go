package engine

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
)

// sliceSource replays a fixed token list.
type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) * 10 }

func obj(inner ...Token) []Token {
	out := []Token{{Kind: KindBeginObject}}
	out = append(out, inner...)
	return append(out, Token{Kind: KindEndObject})
}

func key(k string) Token { return Token{Kind: KindKey, String: k} }
func num(n string) Token { return Token{Kind: KindNumber, Number: n} }

func TestDecodeTree_KeepsKeyOrder(t *testing.T) {
	toks := obj(
		key("z"), num("1"),
		key("a"), Token{Kind: KindBeginArray}, Token{Kind: KindString, String: "x"}, Token{Kind: KindNull}, Token{Kind: KindEndArray},
	)
	n, err := DecodeTree(&sliceSource{toks: toks}, nil)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if !n.Object || !reflect.DeepEqual(n.Keys, []string{"z", "a"}) {
		t.Fatalf("unexpected node: %+v", n)
	}
	if n.Fields[0].Value != json.Number("1") {
		t.Fatalf("number = %#v", n.Fields[0].Value)
	}
	if !reflect.DeepEqual(n.Fields[1].Value, []any{"x", nil}) {
		t.Fatalf("array = %#v", n.Fields[1].Value)
	}
}

func TestDecodeValue_Float64(t *testing.T) {
	v, err := DecodeValue(&sliceSource{toks: obj(key("f"), num("2.5"))}, Float64)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if !reflect.DeepEqual(v, map[string]any{"f": 2.5}) {
		t.Fatalf("value = %#v", v)
	}
}

func TestDecodeTree_Truncated(t *testing.T) {
	_, err := DecodeTree(&sliceSource{toks: []Token{{Kind: KindBeginObject}, key("a")}}, nil)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestEnforcement(t *testing.T) {
	dup := obj(key("a"), num("1"), key("b"), Token{Kind: KindBeginObject}, key("c"), num("2"), key("c"), num("3"), Token{Kind: KindEndObject}, key("a"), num("4"))

	cases := []struct {
		name   string
		toks   []Token
		opt    EnforceOptions
		code   string
		path   string
		issues int
	}{
		{name: "duplicate error", toks: dup, opt: EnforceOptions{OnDuplicate: DupError}, code: "duplicate_key", path: "/b/c", issues: 1},
		{name: "duplicate warn", toks: dup, opt: EnforceOptions{OnDuplicate: DupWarn}, issues: 2},
		{name: "duplicate ignore", toks: dup, opt: EnforceOptions{OnDuplicate: DupIgnore}},
		{name: "depth", toks: dup, opt: EnforceOptions{MaxDepth: 1}, code: "too_deep", path: "/b", issues: 1},
		{name: "bytes", toks: dup, opt: EnforceOptions{MaxBytes: 25}, code: "truncated", issues: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen []SimpleIssue
			tc.opt.IssueSink = func(si SimpleIssue) { seen = append(seen, si) }
			_, err := DecodeTree(WrapWithEnforcement(&sliceSource{toks: tc.toks}, tc.opt), nil)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				var ie IssueError
				if !errors.As(err, &ie) || ie.Code != tc.code {
					t.Fatalf("expected %s, got %v", tc.code, err)
				}
				if tc.path != "" && ie.Path != tc.path {
					t.Fatalf("path = %s, want %s", ie.Path, tc.path)
				}
			}
			if len(seen) != tc.issues {
				t.Fatalf("sink saw %d issues, want %d: %v", len(seen), tc.issues, seen)
			}
		})
	}
}
