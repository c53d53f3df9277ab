// Package lsp implements the protocol-facing core of the cairnls language
// server: JSON-RPC message framing over a byte stream, method dispatch,
// document synchronization, and diagnostics publication.
//
// # Architecture
//
// The package is organized around these components:
//
//   - Transport: LSP base-protocol framing (Content-Length header + JSON body)
//   - FileRepository: open-document text, locator mapping, position resolution
//   - Server: synchronous receive-dispatch-send loop and method handlers
//
// Inbound messages are handled as opaque JSON trees (gjson); only outbound
// payloads are typed. The server is single-threaded: one message
// is fully received, dispatched and answered before the next is read, and
// analysis runs to completion inside the triggering handler. Nothing in
// this package needs locking.
//
// # Usage
//
//	transport := lsp.NewTransport(os.Stdin, os.Stdout)
//	server := lsp.NewServer(transport, engine, logger)
//	clean := server.Run() // true after shutdown followed by exit
//
// The analysis engine is a collaborator behind the analysis.Engine
// interface; the server feeds it the full document set after every
// document-affecting message and republishes its findings as one
// textDocument/publishDiagnostics notification per open document.
package lsp
