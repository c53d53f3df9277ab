// Package main is the entry point for the cairnls language server.
// It speaks the LSP base protocol over stdin/stdout; logs go to stderr so
// they never interleave with the protocol stream.
package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/cairnlang/cairnls/internal/analysis"
	"github.com/cairnlang/cairnls/internal/lsp"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).
		With("session", uuid.NewString())

	transport := lsp.NewTransport(os.Stdin, os.Stdout)
	server := lsp.NewServer(transport, analysis.NewChecker(), logger)

	// A clean run is shutdown followed by exit; anything else (abrupt
	// stream closure, exit without shutdown) is an error exit.
	if server.Run() {
		return 0
	}
	return 1
}
