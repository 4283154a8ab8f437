package schemefile

import (
	"bytes"
	_ "embed"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	di "github.com/reoring/defaultinput"
)

//go:embed table.schema.json
var tableSchemaJSON []byte

const tableSchemaURL = "table.schema.json"

var (
	tableSchemaOnce sync.Once
	tableSchema     *jsonschema.Schema
	tableSchemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	tableSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(tableSchemaURL, bytes.NewReader(tableSchemaJSON)); err != nil {
			tableSchemaErr = err
			return
		}
		tableSchema, tableSchemaErr = compiler.Compile(tableSchemaURL)
	})
	return tableSchema, tableSchemaErr
}

// normalize round-trips v through JSON so that every decoder's output
// (YAML and TOML maps, typed slices, int64) reaches the validator as plain
// JSON values with json.Number numbers.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// validate checks a normalized document against the table schema.
func validate(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return parseIssues(err)
	}
	var iss di.Issues
	collectSchemaErrors(ve, &iss)
	if len(iss) == 0 {
		iss = append(iss, tableIssue("/", di.CodeInvalidTable, ve.Message))
	}
	return iss
}

// collectSchemaErrors gathers the leaf causes of a validation error.
func collectSchemaErrors(ve *jsonschema.ValidationError, iss *di.Issues) {
	if ve == nil {
		return
	}
	if len(ve.Causes) == 0 {
		path := ve.InstanceLocation
		if path == "" {
			path = "/"
		}
		*iss = append(*iss, tableIssue(path, di.CodeInvalidTable, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, iss)
	}
}
