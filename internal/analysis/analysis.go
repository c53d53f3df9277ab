// Package analysis defines the contract between the language server and the
// semantic analysis engine, plus a small bundled engine used by the binary.
package analysis

// Severity classifies a problem. The server maps these to protocol
// diagnostic severities; any other value is an invariant violation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the lowercase category name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Location is a half-open byte range [Start, End) within a source unit.
type Location struct {
	SourceUnit string
	Start      int
	End        int
}

// Secondary is an additional reference attached to a problem, pointing at
// related source (for example the opening delimiter of an unmatched pair).
type Secondary struct {
	Message  string
	Location Location
}

// Problem is a single finding reported by the engine.
// Location may be nil for findings that cannot be pinned to a source unit;
// the server drops those, since protocol diagnostics are file-scoped.
type Problem struct {
	Severity Severity
	Code     uint64
	Message  string
	Location *Location
	Related  []Secondary
}

// Engine analyzes a full document set and returns its findings in order.
// Analysis is synchronous and runs to completion; settings is the raw JSON
// settings object received from the client, or nil.
type Engine interface {
	Analyze(sources map[string]string, settings []byte) []Problem
}
