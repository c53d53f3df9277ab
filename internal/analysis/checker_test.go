package analysis

import "testing"

func analyzeOne(t *testing.T, text string) []Problem {
	t.Helper()
	return NewChecker().Analyze(map[string]string{"a.cairn": text}, nil)
}

func TestChecker_Balanced(t *testing.T) {
	texts := []string{
		"",
		"contract C {}",
		"fn f(a, b) { return [a, b] }",
		"{[()]}",
	}
	for _, text := range texts {
		if problems := analyzeOne(t, text); len(problems) != 0 {
			t.Errorf("%q: got %d problems, want 0", text, len(problems))
		}
	}
}

func TestChecker_UnclosedDelimiter(t *testing.T) {
	problems := analyzeOne(t, "contract C {")
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}
	p := problems[0]
	if p.Severity != SeverityError {
		t.Errorf("Severity = %v, want error", p.Severity)
	}
	if p.Code != CodeUnbalancedDelimiter {
		t.Errorf("Code = %d, want %d", p.Code, CodeUnbalancedDelimiter)
	}
	if p.Location == nil || p.Location.Start != 11 || p.Location.End != 12 {
		t.Errorf("Location = %+v, want [11,12)", p.Location)
	}
	if p.Location.SourceUnit != "a.cairn" {
		t.Errorf("SourceUnit = %q, want a.cairn", p.Location.SourceUnit)
	}
}

func TestChecker_StrayCloser(t *testing.T) {
	problems := analyzeOne(t, ")")
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}
	if problems[0].Message != `unmatched ')'` {
		t.Errorf("Message = %q", problems[0].Message)
	}
}

func TestChecker_MismatchedPairHasSecondary(t *testing.T) {
	problems := analyzeOne(t, "(]")
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}
	p := problems[0]
	if len(p.Related) != 1 {
		t.Fatalf("got %d related entries, want 1", len(p.Related))
	}
	rel := p.Related[0]
	if rel.Location.Start != 0 || rel.Location.End != 1 {
		t.Errorf("related Location = %+v, want [0,1)", rel.Location)
	}
}

func TestChecker_TrailingWhitespace(t *testing.T) {
	problems := analyzeOne(t, "a  \nb\t\nc")
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2", len(problems))
	}
	for _, p := range problems {
		if p.Severity != SeverityWarning {
			t.Errorf("Severity = %v, want warning", p.Severity)
		}
		if p.Code != CodeTrailingWhitespace {
			t.Errorf("Code = %d, want %d", p.Code, CodeTrailingWhitespace)
		}
	}
	if problems[0].Location.Start != 1 || problems[0].Location.End != 3 {
		t.Errorf("first Location = %+v, want [1,3)", problems[0].Location)
	}
}

func TestChecker_DeterministicOrder(t *testing.T) {
	sources := map[string]string{
		"b.cairn": "{",
		"a.cairn": "(",
	}
	problems := NewChecker().Analyze(sources, nil)
	if len(problems) != 2 {
		t.Fatalf("got %d problems, want 2", len(problems))
	}
	if problems[0].Location.SourceUnit != "a.cairn" || problems[1].Location.SourceUnit != "b.cairn" {
		t.Errorf("problems not in source unit order: %q then %q",
			problems[0].Location.SourceUnit, problems[1].Location.SourceUnit)
	}
}
