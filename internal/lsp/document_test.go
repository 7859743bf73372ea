package lsp

import (
	"testing"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/page.html"
	content := `<div class="p-4 flex"></div>`

	store.Open(TextDocumentItem{URI: uri, LanguageID: "html", Text: content, Version: 1})

	doc := store.Get(uri)
	if doc == nil {
		t.Fatal("expected document to exist")
	}
	if doc.URI != uri {
		t.Errorf("expected URI %s, got %s", uri, doc.URI)
	}
	if doc.Content != content {
		t.Errorf("expected content %q, got %q", content, doc.Content)
	}
	if doc.Version != 1 {
		t.Errorf("expected version 1, got %d", doc.Version)
	}
	if doc.LanguageID != "html" {
		t.Errorf("expected language html, got %q", doc.LanguageID)
	}

	store.Close(uri)
	if store.Get(uri) != nil {
		t.Error("expected document to be nil after close")
	}
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/page.html"
	store.Open(TextDocumentItem{URI: uri, LanguageID: "html", Text: `class="a b"`, Version: 1})

	store.Update(uri, []TextDocumentContentChangeEvent{{Text: `class="c d"`}}, 2)

	doc := store.Get(uri)
	if doc.Content != `class="c d"` {
		t.Errorf("expected full replacement, got %q", doc.Content)
	}
	if doc.Version != 2 {
		t.Errorf("expected version 2, got %d", doc.Version)
	}
	if doc.LanguageID != "html" {
		t.Errorf("expected language id to survive updates, got %q", doc.LanguageID)
	}
}

func TestDocumentStore_IncrementalUpdate(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/page.html"
	store.Open(TextDocumentItem{URI: uri, Text: "<p class=\"a\">\n  é🙂 <b class=\"x\"></b>", Version: 1})

	// replace "x" on line 1: "  é🙂 <b class=\"" is 2+1+2+1+10 = 16 UTF-16 units
	store.Update(uri, []TextDocumentContentChangeEvent{
		{Range: &Range{Start: Position{Line: 1, Character: 16}, End: Position{Line: 1, Character: 17}}, Text: "y z"},
		{Range: &Range{Start: Position{Line: 0, Character: 10}, End: Position{Line: 0, Character: 11}}, Text: "b"},
	}, 2)

	doc := store.Get(uri)
	want := "<p class=\"b\">\n  é🙂 <b class=\"y z\"></b>"
	if doc.Content != want {
		t.Errorf("expected %q, got %q", want, doc.Content)
	}
}

func TestDocumentStore_UpdateUnknown(t *testing.T) {
	store := NewDocumentStore()
	store.Update("file:///missing.html", []TextDocumentContentChangeEvent{{Text: "x"}}, 2)
	if store.Get("file:///missing.html") != nil {
		t.Error("update must not create documents")
	}
}

func TestDocumentStore_GetReturnsSnapshot(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///a.html"
	store.Open(TextDocumentItem{URI: uri, Text: "one", Version: 1})

	doc := store.Get(uri)
	store.Update(uri, []TextDocumentContentChangeEvent{{Text: "two"}}, 2)

	if doc.Content != "one" {
		t.Errorf("snapshot changed to %q", doc.Content)
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()

	store.Open(TextDocumentItem{URI: "file:///a.html", Text: "a", Version: 1})
	store.Open(TextDocumentItem{URI: "file:///b.vue", Text: "b", Version: 1})
	store.Open(TextDocumentItem{URI: "file:///c.jsx", Text: "c", Version: 1})

	uris := store.List()
	if len(uris) != 3 {
		t.Errorf("expected 3 URIs, got %d", len(uris))
	}
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"line1\nline2\nline3", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		offsets := computeLineOffsets(tt.content)
		if len(offsets) != len(tt.expected) {
			t.Errorf("content %q: expected %d offsets, got %d", tt.content, len(tt.expected), len(offsets))
			continue
		}
		for i, exp := range tt.expected {
			if offsets[i] != exp {
				t.Errorf("content %q: offset[%d] expected %d, got %d", tt.content, i, exp, offsets[i])
			}
		}
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	content := "line0\nline1\r\nline2"
	doc := newDocument("file:///x", "", content, 1)

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 0, Character: 5}, 5},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 0}, 13},
		{Position{Line: 2, Character: 5}, 18},
		// Edge cases
		{Position{Line: 100, Character: 0}, len(content)}, // Line beyond document
		{Position{Line: 0, Character: 100}, 5},            // Character beyond line
		{Position{Line: 1, Character: 100}, 11},           // CRLF is not part of the line
	}

	for _, tt := range tests {
		offset := doc.PositionToOffset(tt.pos)
		if offset != tt.expected {
			t.Errorf("PositionToOffset(%v): expected %d, got %d", tt.pos, tt.expected, offset)
		}
	}
}

func TestDocument_UTF16(t *testing.T) {
	// é is 2 bytes and 1 unit; 🙂 is 4 bytes and 2 units
	content := "é🙂x"
	doc := newDocument("file:///x", "", content, 1)

	tests := []struct {
		offset int
		char   uint32
	}{
		{0, 0},
		{2, 1},
		{6, 3},
		{7, 4},
	}

	for _, tt := range tests {
		pos := doc.OffsetToPosition(tt.offset)
		if pos.Character != tt.char {
			t.Errorf("OffsetToPosition(%d): expected character %d, got %d", tt.offset, tt.char, pos.Character)
		}
		if back := doc.PositionToOffset(pos); back != tt.offset {
			t.Errorf("PositionToOffset(%v): expected %d, got %d", pos, tt.offset, back)
		}
	}

	// a position inside the surrogate pair stays before the emoji
	if got := doc.PositionToOffset(Position{Character: 2}); got != 2 {
		t.Errorf("mid-surrogate position: expected 2, got %d", got)
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	content := "line0\nline1\nline2"
	doc := newDocument("file:///x", "", content, 1)

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{3, Position{Line: 0, Character: 3}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{10, Position{Line: 1, Character: 4}},
		{12, Position{Line: 2, Character: 0}},
		{17, Position{Line: 2, Character: 5}},
		// Edge cases
		{-1, Position{Line: 0, Character: 0}},  // Negative offset
		{100, Position{Line: 2, Character: 5}}, // Beyond end
	}

	for _, tt := range tests {
		pos := doc.OffsetToPosition(tt.offset)
		if pos != tt.expected {
			t.Errorf("OffsetToPosition(%d): expected %v, got %v", tt.offset, tt.expected, pos)
		}
	}
}

func TestDocument_GetTextInRange(t *testing.T) {
	doc := newDocument("file:///x", "", "<p class=\"b a\">\n</p>", 1)

	got := doc.GetTextInRange(Range{Start: Position{Character: 10}, End: Position{Character: 13}})
	if got != "b a" {
		t.Errorf("expected %q, got %q", "b a", got)
	}
	if got := doc.GetTextInRange(Range{Start: Position{Character: 5}, End: Position{Character: 2}}); got != "" {
		t.Errorf("reversed range: expected empty, got %q", got)
	}
}

func TestURIConversion(t *testing.T) {
	tests := []struct {
		uri  string
		path string
	}{
		{"file:///home/user/page.html", "/home/user/page.html"},
		{"file:///home/user/my%20site/page.html", "/home/user/my site/page.html"},
		{"/already/a/path.html", "/already/a/path.html"},
	}

	for _, tt := range tests {
		if got := URIToPath(tt.uri); got != tt.path {
			t.Errorf("URIToPath(%q): expected %q, got %q", tt.uri, tt.path, got)
		}
	}

	if got := PathToURI("/home/user/my site/page.html"); got != "file:///home/user/my%20site/page.html" {
		t.Errorf("PathToURI: got %q", got)
	}
	if got := PathToURI("file:///a.html"); got != "file:///a.html" {
		t.Errorf("PathToURI kept URI: got %q", got)
	}
}
