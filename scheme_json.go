package defaultinput

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// MarshalJSON writes the scheme as the JSON document it describes, keeping
// the field order of structured schemes.
func (s Scheme) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s Scheme) writeJSON(buf *bytes.Buffer) error {
	if s.kind == KindScalar {
		b, err := json.Marshal(s.value)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	buf.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if err := f.Scheme.writeJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON replaces s with the scheme parsed from data using the default
// ParseOpt (duplicate keys are errors, numbers stay json.Number).
func (s *Scheme) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSchemeBytes(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
