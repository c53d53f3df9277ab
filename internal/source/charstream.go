// Package source holds the text of a single source unit together with its
// line-break index and converts between flat byte offsets and zero-based
// (line, column) pairs.
package source

import (
	"sort"
	"strings"
)

// CharStream is an immutable snapshot of a source unit's text.
// Columns are byte offsets within their line.
type CharStream struct {
	text       string
	lineStarts []int // byte offset of the first character of each line
}

// New builds a CharStream and its line index for text.
// Every text has at least one line; a trailing newline starts a final
// empty line, matching editor semantics.
func New(text string) *CharStream {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &CharStream{text: text, lineStarts: starts}
}

// Text returns the underlying text.
func (cs *CharStream) Text() string { return cs.text }

// LineCount returns the number of lines.
func (cs *CharStream) LineCount() int { return len(cs.lineStarts) }

// lineLength returns the length of line in bytes, excluding its newline.
func (cs *CharStream) lineLength(line int) int {
	start := cs.lineStarts[line]
	if line+1 < len(cs.lineStarts) {
		return cs.lineStarts[line+1] - start - 1
	}
	return len(cs.text) - start
}

// LineColumnToOffset resolves a zero-based (line, column) pair to a byte
// offset. It reports false when the line does not exist or the column lies
// past the end of the line; the offset one past the last character of a
// line is valid so that the end of the text remains addressable.
func (cs *CharStream) LineColumnToOffset(line, column int) (int, bool) {
	if line < 0 || line >= len(cs.lineStarts) {
		return 0, false
	}
	if column < 0 || column > cs.lineLength(line) {
		return 0, false
	}
	return cs.lineStarts[line] + column, true
}

// OffsetToLineColumn translates a byte offset into a (line, column) pair.
// It is total: offsets outside [0, len(text)] are clamped to the nearest
// endpoint. Together with LineColumnToOffset it forms a bijection on
// [0, len(text)].
func (cs *CharStream) OffsetToLineColumn(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(cs.text) {
		offset = len(cs.text)
	}
	// First line starting past offset; the line containing offset is the
	// one before it.
	line = sort.Search(len(cs.lineStarts), func(i int) bool {
		return cs.lineStarts[i] > offset
	}) - 1
	return line, offset - cs.lineStarts[line]
}

// LineContent returns the text of a line without its newline, or "" when
// the line does not exist.
func (cs *CharStream) LineContent(line int) string {
	if line < 0 || line >= len(cs.lineStarts) {
		return ""
	}
	start := cs.lineStarts[line]
	return cs.text[start : start+cs.lineLength(line)]
}

// Splice returns a copy of the text with [start, end) replaced by repl.
// Callers must pass a resolved, ordered range.
func (cs *CharStream) Splice(start, end int, repl string) string {
	var b strings.Builder
	b.Grow(len(cs.text) - (end - start) + len(repl))
	b.WriteString(cs.text[:start])
	b.WriteString(repl)
	b.WriteString(cs.text[end:])
	return b.String()
}
