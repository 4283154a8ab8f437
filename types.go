package defaultinput

// NumberMode dictates how numbers in scheme documents are decoded.
type NumberMode int

const (
	NumberJSONNumber NumberMode = iota // Preserve json.Number (default).
	NumberFloat64                      // Decode as float64 (with potential precision loss).
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Error Severity = iota // Fail decoding.
	Warn                  // Report through ParseOpt.Warn and keep the last value.
	Ignore
)

// Strictness configures enforcement for scheme documents.
type Strictness struct {
	OnDuplicateKey Severity // Duplicate keys make a scheme ambiguous; Error by default.
}

// ParseOpt bundles scheme decoding options.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 means the scheme nesting limit only.
	MaxBytes   int64 // 0 means unlimited.
	NumberMode NumberMode
	// Warn receives non-fatal issues such as tolerated duplicate keys.
	Warn func(Issue)
}
