package schemefile

import (
	json "github.com/goccy/go-json"

	di "github.com/reoring/defaultinput"
)

type jsonTable struct {
	Functions []struct {
		Params []struct {
			Default json.RawMessage `json:"default"`
		} `json:"params"`
	} `json:"functions"`
}

// LoadJSON parses a JSON scheme table. Duplicate keys anywhere in the
// document are rejected, and defaults keep their key order.
func LoadJSON(data []byte) (*Table, error) {
	generic, err := di.DecodeJSON(di.JSONBytes(data))
	if err != nil {
		return nil, err
	}
	if err := validate(generic); err != nil {
		return nil, err
	}
	var raw jsonTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, parseIssues(err)
	}
	return build(generic, func(fi, pj int) (di.Scheme, error) {
		return di.ParseSchemeBytes(raw.Functions[fi].Params[pj].Default)
	})
}
