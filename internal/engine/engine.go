// Package engine turns a JSON token stream into an ordered document tree.
package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Node is one value of a decoded document. Objects keep their keys in input
// order; every other value (arrays included) is carried in Value.
type Node struct {
	Object bool
	Keys   []string
	Fields []Node
	Value  any
}

// NumberConv converts the text of a number token.
type NumberConv func(string) (any, error)

// JSONNumber keeps numbers as json.Number.
func JSONNumber(s string) (any, error) { return json.Number(s), nil }

// Float64 parses numbers as float64.
func Float64(s string) (any, error) { return strconv.ParseFloat(s, 64) }

// DecodeTree reads exactly one value from src.
func DecodeTree(src TokenSource, conv NumberConv) (Node, error) {
	if conv == nil {
		conv = JSONNumber
	}
	tok, err := src.NextToken()
	if err != nil {
		return Node{}, err
	}
	return decodeNode(src, tok, conv)
}

func decodeNode(src TokenSource, tok Token, conv NumberConv) (Node, error) {
	if tok.Kind == KindBeginObject {
		n := Node{Object: true}
		for {
			kt, err := src.NextToken()
			if err != nil {
				return Node{}, err
			}
			if kt.Kind == KindEndObject {
				return n, nil
			}
			if kt.Kind != KindKey {
				return Node{}, io.ErrUnexpectedEOF
			}
			vt, err := src.NextToken()
			if err != nil {
				return Node{}, err
			}
			child, err := decodeNode(src, vt, conv)
			if err != nil {
				return Node{}, err
			}
			n.Keys = append(n.Keys, kt.String)
			n.Fields = append(n.Fields, child)
		}
	}
	v, err := decodeValue(src, tok, conv)
	if err != nil {
		return Node{}, err
	}
	return Node{Value: v}, nil
}

// decodeValue builds a plain any value (objects become map[string]any).
func decodeValue(src TokenSource, tok Token, conv NumberConv) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		m := make(map[string]any)
		for {
			kt, err := src.NextToken()
			if err != nil {
				return nil, err
			}
			if kt.Kind == KindEndObject {
				return m, nil
			}
			if kt.Kind != KindKey {
				return nil, io.ErrUnexpectedEOF
			}
			vt, err := src.NextToken()
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(src, vt, conv)
			if err != nil {
				return nil, err
			}
			m[kt.String] = v
		}
	case KindBeginArray:
		arr := []any{}
		for {
			t, err := src.NextToken()
			if err != nil {
				return nil, err
			}
			if t.Kind == KindEndArray {
				return arr, nil
			}
			v, err := decodeValue(src, t, conv)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case KindString:
		return tok.String, nil
	case KindNumber:
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

// DecodeValue reads exactly one value from src as plain Go values.
func DecodeValue(src TokenSource, conv NumberConv) (any, error) {
	if conv == nil {
		conv = JSONNumber
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok, conv)
}
