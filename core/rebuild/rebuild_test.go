package rebuild

import (
	"errors"
	"testing"

	"github.com/sekai-tl/sekai-core/core/entry"
	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
	"github.com/sekai-tl/sekai-core/core/parser"
)

func entriesOf(pairs ...entry.CoreEntry) []entry.CoreEntry {
	return pairs
}

func TestRebuildEmpty(t *testing.T) {
	got, err := Rebuild(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Rebuild(nil) = %q, want empty", got)
	}
}

func TestRebuildConcatenatesInIndexOrder(t *testing.T) {
	// Caller order is deliberately shuffled; the rebuilder must re-sort.
	entries := entriesOf(
		entry.CoreEntry{Index: 3, Kind: entry.KindText, Content: "World"},
		entry.CoreEntry{Index: 0, Kind: entry.KindText, Content: "Hello"},
		entry.CoreEntry{Index: 5, Kind: entry.KindWhitespace, Content: "\n"},
		entry.CoreEntry{Index: 2, Kind: entry.KindControl, Content: "<color=red>"},
		entry.CoreEntry{Index: 4, Kind: entry.KindControl, Content: "</color>"},
		entry.CoreEntry{Index: 1, Kind: entry.KindWhitespace, Content: "\n"},
	)
	got, err := Rebuild(entries)
	if err != nil {
		t.Fatal(err)
	}
	want := "Hello\n<color=red>World</color>\n"
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}
}

func TestRebuildDuplicateIndex(t *testing.T) {
	entries := entriesOf(
		entry.CoreEntry{Index: 0, Kind: entry.KindText, Content: "a"},
		entry.CoreEntry{Index: 1, Kind: entry.KindText, Content: "b"},
		entry.CoreEntry{Index: 1, Kind: entry.KindText, Content: "c"},
		entry.CoreEntry{Index: 3, Kind: entry.KindText, Content: "d"},
	)
	got, err := Rebuild(entries)
	if err == nil {
		t.Fatalf("expected error, got %q", got)
	}
	if !errors.Is(err, coreerrors.ErrDuplicateIndex) {
		t.Errorf("error should wrap ErrDuplicateIndex, got %v", err)
	}
	var re *coreerrors.RebuildError
	if !errors.As(err, &re) || re.Index != 1 {
		t.Errorf("error should name index 1, got %v", err)
	}
}

func TestRebuildMissingIndex(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry.CoreEntry
		missing int
	}{
		{
			name: "gap in the middle",
			entries: entriesOf(
				entry.CoreEntry{Index: 0, Kind: entry.KindText, Content: "a"},
				entry.CoreEntry{Index: 2, Kind: entry.KindText, Content: "b"},
			),
			missing: 1,
		},
		{
			name: "does not start at zero",
			entries: entriesOf(
				entry.CoreEntry{Index: 1, Kind: entry.KindText, Content: "a"},
				entry.CoreEntry{Index: 2, Kind: entry.KindText, Content: "b"},
			),
			missing: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rebuild(tt.entries)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, coreerrors.ErrMissingIndex) {
				t.Errorf("error should wrap ErrMissingIndex, got %v", err)
			}
			var re *coreerrors.RebuildError
			if !errors.As(err, &re) || re.Index != tt.missing {
				t.Errorf("error should name index %d, got %v", tt.missing, err)
			}
		})
	}
}

func TestRebuildNegativeIndex(t *testing.T) {
	_, err := Rebuild(entriesOf(entry.CoreEntry{Index: -1, Kind: entry.KindText, Content: "a"}))
	if !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Hello\n<color=red>World</color>\n",
		"   <Yuki>\"Good morning\"   \r\n",
		"[cm]\n[wait time=200]\n改行テスト[r]\n",
		"broken \x80\xFF bytes and <unclosed\n",
		"<ユキ>「おはよう、世界」[l][r]\n\t indented",
	}

	for _, input := range inputs {
		entries, err := parser.Segment(input)
		if err != nil {
			t.Fatalf("Segment(%q): %v", input, err)
		}
		got, err := Rebuild(entries)
		if err != nil {
			t.Fatalf("Rebuild of %q: %v", input, err)
		}
		if got != input {
			t.Errorf("round trip broke:\n in: %q\nout: %q", input, got)
		}
	}
}

func TestEditIsolation(t *testing.T) {
	const input = "Hello\n<color=red>World</color>\n"
	entries, err := parser.Segment(input)
	if err != nil {
		t.Fatal(err)
	}

	// Edit only entry 3 ("World" -> "Mundo"); everything outside its
	// original byte range must survive byte-identical.
	edited := make([]entry.CoreEntry, len(entries))
	copy(edited, entries)
	edited[3].Content = "Mundo"

	got, err := Rebuild(edited)
	if err != nil {
		t.Fatal(err)
	}
	want := "Hello\n<color=red>Mundo</color>\n"
	if got != want {
		t.Errorf("Rebuild = %q, want %q", got, want)
	}

	span := entries[3].Span
	if got[:span.Off] != input[:span.Off] {
		t.Error("bytes before the edited span changed")
	}
	if got[span.Off+len("Mundo"):] != input[span.End():] {
		t.Error("bytes after the edited span changed")
	}
}
