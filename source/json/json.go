// Package json provides a defaultinput.JSONDriver backed by encoding/json,
// for programs that want to avoid go-json's unsafe fast paths.
//
//	defaultinput.SetJSONDriver(json.Driver())
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	di "github.com/reoring/defaultinput"
)

// Driver returns the encoding/json JSONDriver.
func Driver() di.JSONDriver { return driver{} }

type driver struct{}

func (driver) NewReader(r io.Reader) di.Source { return NewReader(r) }
func (driver) NewBytes(b []byte) di.Source     { return NewReader(bytes.NewReader(b)) }
func (driver) Name() string                    { return "encoding/json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into a defaultinput.Source.
func NewReader(r io.Reader) di.Source {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

func (s *jsonSource) NextToken() (di.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return di.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return s.token(di.Token{Kind: di.TokenBeginObject}), nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return s.token(di.Token{Kind: di.TokenBeginArray}), nil
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			if v == '}' {
				return s.token(di.Token{Kind: di.TokenEndObject}), nil
			}
			return s.token(di.Token{Kind: di.TokenEndArray}), nil
		}
	case string:
		if n := len(s.stack); n > 0 && s.stack[n-1].kind == kindObject && s.stack[n-1].expectingKey {
			s.stack[n-1].expectingKey = false
			return s.token(di.Token{Kind: di.TokenKey, String: v}), nil
		}
		s.valueDone()
		return s.token(di.Token{Kind: di.TokenString, String: v}), nil
	case bool:
		s.valueDone()
		return s.token(di.Token{Kind: di.TokenBool, Bool: v}), nil
	case json.Number:
		s.valueDone()
		return s.token(di.Token{Kind: di.TokenNumber, Number: string(v)}), nil
	case float64:
		s.valueDone()
		return s.token(di.Token{Kind: di.TokenNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}), nil
	}
	s.valueDone()
	return s.token(di.Token{Kind: di.TokenNull}), nil
}

func (s *jsonSource) token(t di.Token) di.Token {
	t.Offset = s.lastOffset
	return t
}

// valueDone flips the enclosing object back to expecting a key.
func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 && s.stack[n-1].kind == kindObject {
		s.stack[n-1].expectingKey = true
	}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
