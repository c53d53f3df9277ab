package lsp

import (
	"maps"
	"sort"
	"strings"

	"github.com/cairnlang/cairnls/internal/source"
)

// fileScheme is the only client locator scheme the server accepts.
const fileScheme = "file://"

// FileRepository maps client-facing document locators to analysis-facing
// source unit names and holds the current text of every open document.
// The stored text is the single source of truth for editing and analysis.
type FileRepository struct {
	basePath string
	sources  map[string]string
	streams  map[string]*source.CharStream
}

// NewFileRepository creates an empty repository rooted at "/".
func NewFileRepository() *FileRepository {
	return &FileRepository{
		basePath: "/",
		sources:  make(map[string]string),
		streams:  make(map[string]*source.CharStream),
	}
}

// SetBasePath establishes the workspace root resolved during initialize.
func (r *FileRepository) SetBasePath(path string) { r.basePath = path }

// BasePath returns the workspace root.
func (r *FileRepository) BasePath() string { return r.basePath }

// ClientPathToSourceUnitName derives the analysis-facing name from a client
// locator by stripping the file scheme. Inverse of
// SourceUnitNameToClientPath.
func (r *FileRepository) ClientPathToSourceUnitName(uri string) string {
	return strings.TrimPrefix(uri, fileScheme)
}

// SourceUnitNameToClientPath rebuilds the client locator for a source unit
// name.
func (r *FileRepository) SourceUnitNameToClientPath(name string) string {
	return fileScheme + name
}

// SetSourceByClientPath upserts the document addressed by uri with text.
func (r *FileRepository) SetSourceByClientPath(uri, text string) {
	name := r.ClientPathToSourceUnitName(uri)
	r.sources[name] = text
	delete(r.streams, name)
}

// Source returns the current text of a source unit.
func (r *FileRepository) Source(name string) (string, bool) {
	text, ok := r.sources[name]
	return text, ok
}

// SourceUnits returns a copy of the full document set keyed by source unit
// name, as handed to the analysis engine. Callers may mutate the returned
// map without affecting the stored text.
func (r *FileRepository) SourceUnits() map[string]string {
	return maps.Clone(r.sources)
}

// SourceUnitNames returns all known source unit names in sorted order.
func (r *FileRepository) SourceUnitNames() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stream returns the cached CharStream for a known source unit, building it
// on first use after a write.
func (r *FileRepository) Stream(name string) (*source.CharStream, bool) {
	if cs, ok := r.streams[name]; ok {
		return cs, true
	}
	text, ok := r.sources[name]
	if !ok {
		return nil, false
	}
	cs := source.New(text)
	r.streams[name] = cs
	return cs, true
}

// PositionToOffset resolves a zero-based (line, column) position within a
// known source unit to a byte offset. It reports false for unknown units
// and unresolvable positions.
func (r *FileRepository) PositionToOffset(name string, line, column int) (int, bool) {
	cs, ok := r.Stream(name)
	if !ok {
		return 0, false
	}
	return cs.LineColumnToOffset(line, column)
}

// OffsetToPosition is the total inverse of PositionToOffset for offsets in
// [0, len(text)]. It reports false only for unknown source units.
func (r *FileRepository) OffsetToPosition(name string, offset int) (line, column int, ok bool) {
	cs, ok := r.Stream(name)
	if !ok {
		return 0, 0, false
	}
	line, column = cs.OffsetToLineColumn(offset)
	return line, column, true
}
