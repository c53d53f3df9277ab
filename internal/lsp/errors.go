package lsp

import "errors"

// Transport-level failures. The run loop reports all of these to the client
// as a ParseError response with a null id.
var (
	// ErrMalformedHeader indicates a header line without a colon separator.
	ErrMalformedHeader = errors.New("malformed header line")

	// ErrMissingLength indicates a header block without a content-length.
	ErrMissingLength = errors.New("no content-length header found")

	// ErrBadJSON indicates a body that is not valid JSON.
	ErrBadJSON = errors.New("body is not valid JSON")
)

// ErrorCode is a JSON-RPC / LSP protocol error code.
type ErrorCode int

// Protocol error codes surfaced by the server.
const (
	// JSON-RPC standard errors
	CodeParseError     ErrorCode = -32700
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603

	// LSP-specific errors
	CodeRequestFailed ErrorCode = -32803
)
