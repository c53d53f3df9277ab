package lsp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cairnlang/cairnls/internal/analysis"
)

// Server identity reported in the initialize response.
const (
	Name    = "cairnls"
	Version = "0.1.0"
)

// handlerFunc handles one dispatched message. Validation failures are
// reported to the client by the handler itself; a non-nil return means an
// unexpected fault, converted to an InternalError response at the dispatch
// boundary.
type handlerFunc func(id RawID, params gjson.Result) error

// Server owns the document repository, the client-supplied settings and the
// method handler table, and runs the synchronous receive-dispatch-send
// loop. All state is touched only from within Run, so no locking is needed.
type Server struct {
	transport *Transport
	repo      *FileRepository
	engine    analysis.Engine
	log       *slog.Logger

	settings []byte // raw JSON settings object from the client, or nil
	handlers map[string]handlerFunc

	shutdownRequested bool
	exitRequested     bool
}

// NewServer creates a server speaking over transport, delegating analysis
// to engine. A nil logger falls back to slog.Default. The handler table is
// fixed here and never mutated afterwards.
func NewServer(transport *Transport, engine analysis.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		transport: transport,
		repo:      NewFileRepository(),
		engine:    engine,
		log:       logger,
	}
	noop := func(RawID, gjson.Result) error { return nil }
	s.handlers = map[string]handlerFunc{
		// Analysis is synchronous and uninterruptible, so cancellation is
		// acknowledged but not acted on.
		"$/cancelRequest": noop,
		"cancelRequest":   noop,
		"initialize":      s.handleInitialize,
		"initialized":     noop,
		"shutdown": func(RawID, gjson.Result) error {
			s.shutdownRequested = true
			return nil
		},
		"exit": func(RawID, gjson.Result) error {
			s.exitRequested = true
			return nil
		},
		"textDocument/didOpen":             s.handleTextDocumentDidOpen,
		"textDocument/didChange":           s.handleTextDocumentDidChange,
		"textDocument/didClose":            noop,
		"workspace/didChangeConfiguration": s.handleDidChangeConfiguration,
	}
	return s
}

// Run executes the dispatch loop until exit is requested or the input
// stream closes. It returns whether shutdown had been requested, so callers
// can distinguish a clean shutdown-then-exit from an abrupt closure.
func (s *Server) Run() bool {
	s.log.Info("language server started", "name", Name, "version", Version)

	for !s.exitRequested && !s.transport.Closed() {
		msg, err := s.transport.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				continue // clean closure, loop condition terminates
			}
			s.log.Warn("failed to parse request", "error", err)
			s.sendError(nil, CodeParseError, "error parsing JSON-RPC request: "+err.Error())
			continue
		}

		method := msg.Get("method").String()
		id := RawID(msg.Get("id").Raw)

		handler, ok := s.handlers[method]
		if !ok {
			s.log.Warn("unknown method", "method", method)
			s.sendError(id, CodeMethodNotFound, "unknown method "+method)
			continue
		}
		if err := handler(id, msg.Get("params")); err != nil {
			s.log.Error("handler failed", "method", method, "error", err)
			s.sendError(nil, CodeInternalError, "unhandled failure: "+err.Error())
		}
	}

	s.log.Info("language server stopped", "clean", s.shutdownRequested)
	return s.shutdownRequested
}

// sendError reports a protocol error, logging when even that write fails.
func (s *Server) sendError(id RawID, code ErrorCode, message string) {
	if err := s.transport.Error(id, code, message); err != nil {
		s.log.Error("failed to send error response", "code", int(code), "error", err)
	}
}

func (s *Server) handleInitialize(id RawID, params gjson.Result) error {
	// The working directory the server was started from should not matter.
	rootPath := "/"
	if uri := params.Get("rootUri"); uri.Exists() && uri.Type != gjson.Null {
		rootPath = uri.String()
		if !strings.HasPrefix(rootPath, fileScheme) {
			return s.transport.Error(id, CodeInvalidParams, "rootUri only supports the file URI scheme")
		}
		rootPath = strings.TrimPrefix(rootPath, fileScheme)
	} else if path := params.Get("rootPath"); path.Exists() && path.Type != gjson.Null {
		rootPath = path.String()
	}

	s.repo.SetBasePath(rootPath)
	if opts := params.Get("initializationOptions"); opts.IsObject() {
		s.changeConfiguration(opts)
	}

	s.log.Info("initialized", "root", rootPath)
	return s.transport.Reply(id, map[string]any{
		"serverInfo": map[string]any{
			"name":    Name,
			"version": Version,
		},
		"capabilities": map[string]any{
			"textDocumentSync": map[string]any{
				"openClose": true,
				"change":    2, // 0=none, 1=full, 2=incremental
			},
		},
	})
}

func (s *Server) handleDidChangeConfiguration(_ RawID, params gjson.Result) error {
	if settings := params.Get("settings"); settings.IsObject() {
		s.changeConfiguration(settings)
	}
	return nil
}

// changeConfiguration replaces the settings object wholesale. It is stored
// raw and handed to the analysis engine untouched.
func (s *Server) changeConfiguration(settings gjson.Result) {
	s.settings = []byte(settings.Raw)
}

func (s *Server) handleTextDocumentDidOpen(id RawID, params gjson.Result) error {
	doc := params.Get("textDocument")
	if !doc.Exists() {
		return s.transport.Error(id, CodeRequestFailed, "text document parameter missing")
	}
	s.repo.SetSourceByClientPath(doc.Get("uri").String(), doc.Get("text").String())
	return s.compileAndUpdateDiagnostics()
}

// handleTextDocumentDidChange applies content changes left to right, each
// against the result of the previous. On a failing entry the remaining
// entries are abandoned but prior edits stay applied; diagnostics are then
// republished once so the client view matches the stored text.
func (s *Server) handleTextDocumentDidChange(id RawID, params gjson.Result) error {
	uri := params.Get("textDocument.uri").String()
	name := s.repo.ClientPathToSourceUnitName(uri)

	applied := 0
	failed := false
	for _, change := range params.Get("contentChanges").Array() {
		if !change.IsObject() {
			failed = true
			if err := s.transport.Error(id, CodeRequestFailed, "invalid content change entry"); err != nil {
				return err
			}
			break
		}
		stream, ok := s.repo.Stream(name)
		if !ok {
			failed = true
			if err := s.transport.Error(id, CodeRequestFailed, "unknown file: "+uri); err != nil {
				return err
			}
			break
		}

		text := change.Get("text").String()
		if rng := change.Get("range"); rng.IsObject() {
			start, end, ok := s.resolveRange(name, rng)
			if !ok {
				failed = true
				if err := s.transport.Error(id, CodeRequestFailed, "invalid source range: "+rng.Raw); err != nil {
					return err
				}
				break
			}
			text = stream.Splice(start, end, text)
		}
		s.repo.SetSourceByClientPath(uri, text)
		applied++
	}

	if failed && applied == 0 {
		return nil
	}
	return s.compileAndUpdateDiagnostics()
}

// resolvePosition resolves a {line, character} object against the current
// text of a known source unit.
func (s *Server) resolvePosition(name string, pos gjson.Result) (int, bool) {
	if !pos.IsObject() {
		return 0, false
	}
	line := pos.Get("line")
	column := pos.Get("character")
	if line.Type != gjson.Number || column.Type != gjson.Number {
		return 0, false
	}
	return s.repo.PositionToOffset(name, int(line.Int()), int(column.Int()))
}

// resolveRange resolves a {start, end} object to a byte range. Both
// endpoints must resolve within the same source unit and be ordered.
func (s *Server) resolveRange(name string, rng gjson.Result) (start, end int, ok bool) {
	start, okStart := s.resolvePosition(name, rng.Get("start"))
	end, okEnd := s.resolvePosition(name, rng.Get("end"))
	if !okStart || !okEnd || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// toDiagnosticSeverity maps an engine category onto the protocol numbering.
// The engine only ever reports error, warning or info; anything else is an
// invariant violation.
func toDiagnosticSeverity(severity analysis.Severity) (DiagnosticSeverity, error) {
	switch severity {
	case analysis.SeverityError:
		return DiagnosticSeverityError, nil
	case analysis.SeverityWarning:
		return DiagnosticSeverityWarning, nil
	case analysis.SeverityInfo:
		return DiagnosticSeverityInformation, nil
	default:
		return 0, fmt.Errorf("unexpected problem severity %d", severity)
	}
}

// toRange converts a byte range within a known source unit to a protocol
// range.
func (s *Server) toRange(name string, start, end int) Range {
	startLine, startCol, _ := s.repo.OffsetToPosition(name, start)
	endLine, endCol, _ := s.repo.OffsetToPosition(name, end)
	return Range{
		Start: newPosition(startLine, startCol),
		End:   newPosition(endLine, endCol),
	}
}

// compileAndUpdateDiagnostics reruns analysis over the full document set and
// publishes one diagnostics notification per known document. Documents
// without findings get an empty array so stale client diagnostics are
// cleared. Problems without a resolvable primary location are dropped:
// protocol diagnostics are always file-scoped.
func (s *Server) compileAndUpdateDiagnostics() error {
	sources := s.repo.SourceUnits()
	problems := s.engine.Analyze(sources, s.settings)

	byUnit := make(map[string][]Diagnostic, len(sources))
	for _, name := range s.repo.SourceUnitNames() {
		byUnit[name] = []Diagnostic{}
	}

	for _, problem := range problems {
		loc := problem.Location
		if loc == nil {
			continue
		}
		if _, known := byUnit[loc.SourceUnit]; !known {
			continue
		}
		severity, err := toDiagnosticSeverity(problem.Severity)
		if err != nil {
			return err
		}
		diag := Diagnostic{
			Range:    s.toRange(loc.SourceUnit, loc.Start, loc.End),
			Severity: severity,
			Code:     problem.Code,
			Source:   Name,
			Message:  problem.Message,
		}
		for _, related := range problem.Related {
			if _, known := byUnit[related.Location.SourceUnit]; !known {
				continue
			}
			diag.RelatedInformation = append(diag.RelatedInformation, DiagnosticRelatedInformation{
				Message: related.Message,
				Location: Location{
					URI:   s.repo.SourceUnitNameToClientPath(related.Location.SourceUnit),
					Range: s.toRange(related.Location.SourceUnit, related.Location.Start, related.Location.End),
				},
			})
		}
		byUnit[loc.SourceUnit] = append(byUnit[loc.SourceUnit], diag)
	}

	for _, name := range s.repo.SourceUnitNames() {
		params := PublishDiagnosticsParams{
			URI:         s.repo.SourceUnitNameToClientPath(name),
			Diagnostics: byUnit[name],
		}
		if err := s.transport.Notify("textDocument/publishDiagnostics", params); err != nil {
			return err
		}
		s.log.Debug("published diagnostics", "uri", params.URI, "count", len(params.Diagnostics))
	}
	return nil
}
