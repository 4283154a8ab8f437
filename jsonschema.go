package defaultinput

import (
	"encoding/json"
	"reflect"

	js "github.com/reoring/defaultinput/jsonschema"
)

// JSONSchema projects the scheme into a JSON Schema whose "default" keywords
// carry the scheme's literal values. Structured schemes become open objects,
// since callers may pass keys the scheme does not know about.
func (s Scheme) JSONSchema() (*js.Schema, error) {
	out, err := s.jsonSchema()
	if err != nil {
		return nil, err
	}
	out.Schema = js.Draft
	return out, nil
}

func (s Scheme) jsonSchema() (*js.Schema, error) {
	if s.kind == KindScalar {
		return &js.Schema{Type: jsonType(s.value), Default: s.Value()}, nil
	}
	props := make(map[string]*js.Schema, len(s.fields))
	for _, f := range s.fields {
		ps, err := f.Scheme.jsonSchema()
		if err != nil {
			return nil, rebaseKey(toIssues(err), f.Key)
		}
		props[f.Key] = ps
	}
	return &js.Schema{Type: "object", Properties: props, AdditionalProperties: true}, nil
}

// jsonType names the JSON Schema type of a default value; "" leaves it open.
func jsonType(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return "integer"
		}
		return "number"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return ""
}
