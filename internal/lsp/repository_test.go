package lsp

import "testing"

func TestFileRepository_PathMappingRoundTrip(t *testing.T) {
	repo := NewFileRepository()

	uris := []string{
		"file:///project/a.cairn",
		"file:///deep/nested/path/file.cairn",
		"file:///",
	}
	for _, uri := range uris {
		name := repo.ClientPathToSourceUnitName(uri)
		if back := repo.SourceUnitNameToClientPath(name); back != uri {
			t.Errorf("round trip %q -> %q -> %q", uri, name, back)
		}
	}
}

func TestFileRepository_SetSourceByClientPath(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///a.cairn", "one")

	text, ok := repo.Source("/a.cairn")
	if !ok || text != "one" {
		t.Fatalf("Source() = %q, %v", text, ok)
	}

	// Upsert replaces in place.
	repo.SetSourceByClientPath("file:///a.cairn", "two")
	if text, _ := repo.Source("/a.cairn"); text != "two" {
		t.Errorf("after upsert Source() = %q, want two", text)
	}
	if len(repo.SourceUnits()) != 1 {
		t.Errorf("SourceUnits() has %d entries, want 1", len(repo.SourceUnits()))
	}
}

func TestFileRepository_StreamInvalidatedOnWrite(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///a.cairn", "ab")

	before, ok := repo.Stream("/a.cairn")
	if !ok {
		t.Fatal("Stream() failed for known unit")
	}
	if cached, _ := repo.Stream("/a.cairn"); cached != before {
		t.Error("Stream() not cached between reads")
	}

	repo.SetSourceByClientPath("file:///a.cairn", "ab\ncd")
	after, _ := repo.Stream("/a.cairn")
	if after == before {
		t.Error("Stream() not invalidated by write")
	}
	if after.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", after.LineCount())
	}
}

func TestFileRepository_PositionToOffset(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///a.cairn", "ab\ncd")

	if off, ok := repo.PositionToOffset("/a.cairn", 1, 1); !ok || off != 4 {
		t.Errorf("PositionToOffset(1,1) = %d, %v, want 4, true", off, ok)
	}
	if _, ok := repo.PositionToOffset("/a.cairn", 9, 0); ok {
		t.Error("PositionToOffset resolved an out-of-range line")
	}
	if _, ok := repo.PositionToOffset("/missing.cairn", 0, 0); ok {
		t.Error("PositionToOffset resolved an unknown source unit")
	}
}

func TestFileRepository_OffsetToPosition(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///a.cairn", "ab\ncd")

	line, column, ok := repo.OffsetToPosition("/a.cairn", 4)
	if !ok || line != 1 || column != 1 {
		t.Errorf("OffsetToPosition(4) = (%d,%d,%v), want (1,1,true)", line, column, ok)
	}
	if _, _, ok := repo.OffsetToPosition("/missing.cairn", 0); ok {
		t.Error("OffsetToPosition resolved an unknown source unit")
	}
}

// SourceUnits hands the document set to the analysis engine; a mutating
// caller must not be able to corrupt the stored text behind the stream
// cache.
func TestFileRepository_SourceUnitsIsACopy(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///a.cairn", "original")

	units := repo.SourceUnits()
	units["/a.cairn"] = "mutated"
	units["/injected.cairn"] = "x"

	if text, _ := repo.Source("/a.cairn"); text != "original" {
		t.Errorf("stored text = %q, want unaffected by caller mutation", text)
	}
	if _, ok := repo.Source("/injected.cairn"); ok {
		t.Error("caller mutation injected a document into the store")
	}
	if stream, _ := repo.Stream("/a.cairn"); stream.Text() != "original" {
		t.Errorf("stream text = %q, want unaffected by caller mutation", stream.Text())
	}
}

func TestFileRepository_SourceUnitNamesSorted(t *testing.T) {
	repo := NewFileRepository()
	repo.SetSourceByClientPath("file:///b.cairn", "")
	repo.SetSourceByClientPath("file:///a.cairn", "")
	repo.SetSourceByClientPath("file:///c.cairn", "")

	names := repo.SourceUnitNames()
	want := []string{"/a.cairn", "/b.cairn", "/c.cairn"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
