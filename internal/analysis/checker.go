package analysis

import (
	"fmt"
	"sort"
)

// Problem codes reported by Checker.
const (
	CodeUnbalancedDelimiter uint64 = 1001
	CodeTrailingWhitespace  uint64 = 2001
)

// Checker is the bundled analysis engine: it verifies that {}, () and []
// pairs balance and flags trailing whitespace. It exists so the server has
// a working collaborator out of the box; richer engines implement Engine
// behind the same interface.
type Checker struct{}

// NewChecker returns a ready Checker.
func NewChecker() *Checker { return &Checker{} }

type openDelim struct {
	ch     byte
	offset int
}

var closerFor = map[byte]byte{'{': '}', '(': ')', '[': ']'}
var openerFor = map[byte]byte{'}': '{', ')': '(', ']': '['}

// Analyze implements Engine. Source units are processed in name order so
// output is deterministic across runs.
func (c *Checker) Analyze(sources map[string]string, settings []byte) []Problem {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []Problem
	for _, name := range names {
		problems = append(problems, c.checkDelimiters(name, sources[name])...)
		problems = append(problems, c.checkTrailingWhitespace(name, sources[name])...)
	}
	return problems
}

func (c *Checker) checkDelimiters(name, text string) []Problem {
	var stack []openDelim
	var problems []Problem

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if _, ok := closerFor[ch]; ok {
			stack = append(stack, openDelim{ch: ch, offset: i})
			continue
		}
		opener, ok := openerFor[ch]
		if !ok {
			continue
		}
		if len(stack) == 0 {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Code:     CodeUnbalancedDelimiter,
				Message:  fmt.Sprintf("unmatched %q", ch),
				Location: &Location{SourceUnit: name, Start: i, End: i + 1},
			})
			continue
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.ch != opener {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Code:     CodeUnbalancedDelimiter,
				Message:  fmt.Sprintf("expected %q to close %q", closerFor[top.ch], top.ch),
				Location: &Location{SourceUnit: name, Start: i, End: i + 1},
				Related: []Secondary{{
					Message:  fmt.Sprintf("%q opened here", top.ch),
					Location: Location{SourceUnit: name, Start: top.offset, End: top.offset + 1},
				}},
			})
		}
	}

	for _, open := range stack {
		problems = append(problems, Problem{
			Severity: SeverityError,
			Code:     CodeUnbalancedDelimiter,
			Message:  fmt.Sprintf("unclosed %q", open.ch),
			Location: &Location{SourceUnit: name, Start: open.offset, End: open.offset + 1},
		})
	}
	return problems
}

func (c *Checker) checkTrailingWhitespace(name, text string) []Problem {
	var problems []Problem
	lineStart := 0
	flush := func(lineEnd int) {
		wsStart := lineEnd
		for wsStart > lineStart && (text[wsStart-1] == ' ' || text[wsStart-1] == '\t') {
			wsStart--
		}
		if wsStart < lineEnd {
			problems = append(problems, Problem{
				Severity: SeverityWarning,
				Code:     CodeTrailingWhitespace,
				Message:  "trailing whitespace",
				Location: &Location{SourceUnit: name, Start: wsStart, End: lineEnd},
			})
		}
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			flush(i)
			lineStart = i + 1
		}
	}
	flush(len(text))
	return problems
}
