package lsp

// Protocol types the server sends. Inbound traffic is read as opaque JSON
// with gjson, so only the outbound surface is typed.

// Position in a text document, zero-based line and column. The column is a
// byte offset within its line. Never serialized negative; constructors
// clamp.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range in a text document, start ≤ end in document order.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is a range inside a client-addressable document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// DiagnosticSeverity per the protocol: 1=error, 2=warning, 3=info, 4=hint.
type DiagnosticSeverity int

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

// DiagnosticRelatedInformation is a secondary reference attached to a
// diagnostic.
type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// Diagnostic is a single published analysis finding, always scoped to one
// document.
type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity             `json:"severity"`
	Code               uint64                         `json:"code"`
	Source             string                         `json:"source"`
	Message            string                         `json:"message"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
}

// PublishDiagnosticsParams is the payload of textDocument/publishDiagnostics.
// Diagnostics is never nil so documents without findings still serialize an
// empty array, clearing stale client state.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// newPosition clamps negative components to zero before serialization.
func newPosition(line, column int) Position {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return Position{Line: line, Character: column}
}
