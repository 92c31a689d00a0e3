// Package entry defines the CoreEntry model exchanged between parse and
// rebuild. The entry sequence is the sole contract between the two calls:
// the engine keeps no server-side session state, so callers may edit and
// replay sequences arbitrarily.
package entry

import (
	"encoding/json"
	"fmt"

	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// Kind classifies an entry's run of characters.
type Kind string

// Kind constants. Text entries are the only ones intended for translation
// editing; all other kinds are pass-through material.
const (
	KindText       Kind = "text"
	KindControl    Kind = "control"
	KindWhitespace Kind = "whitespace"
	KindOther      Kind = "other"
)

// validKinds is the closed set of entry kinds.
var validKinds = map[Kind]bool{
	KindText:       true,
	KindControl:    true,
	KindWhitespace: true,
	KindOther:      true,
}

// IsValid returns true if the kind is a member of the closed set.
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Span locates an entry's original bytes inside the input buffer.
// Spans are internal bookkeeping used to validate segmentation and
// rebuild; they are not serialized on the wire.
type Span struct {
	Off int
	Len int
}

// End returns the byte offset one past the span.
func (s Span) End() int {
	return s.Off + s.Len
}

// CoreEntry is the atomic, typed, order-preserving unit of parsed text.
type CoreEntry struct {
	// Index is the entry's position in the original sequence, stable
	// across edits.
	Index int `json:"index"`

	// Kind is the entry classification.
	Kind Kind `json:"kind"`

	// Content is the editable string for text entries and the exact
	// original characters for every other kind.
	Content string `json:"content"`

	// Span records the entry's byte range in the original buffer.
	Span Span `json:"-"`
}

// UnmarshalJSON validates the wire shape of an entry: index must be a
// non-negative integer and kind must be a member of the closed set.
func (e *CoreEntry) UnmarshalJSON(data []byte) error {
	type wire struct {
		Index   *int            `json:"index"`
		Kind    *Kind           `json:"kind"`
		Content json.RawMessage `json:"content"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return coreerrors.NewValidation("entries", fmt.Sprintf("entry is not an object: %v", err))
	}
	if w.Index == nil {
		return coreerrors.NewValidation("entries.index", "index is required")
	}
	if *w.Index < 0 {
		return coreerrors.NewValidation("entries.index", fmt.Sprintf("index must be non-negative, got %d", *w.Index))
	}
	if w.Kind == nil {
		return coreerrors.NewValidation("entries.kind", "kind is required")
	}
	if !w.Kind.IsValid() {
		return coreerrors.NewValidation("entries.kind", fmt.Sprintf("unknown kind %q", *w.Kind))
	}
	var content string
	if len(w.Content) > 0 {
		if err := json.Unmarshal(w.Content, &content); err != nil {
			return coreerrors.NewValidation("entries.content", "content must be a string")
		}
	}
	e.Index = *w.Index
	e.Kind = *w.Kind
	e.Content = content
	e.Span = Span{}
	return nil
}

// ValidateSequence checks the coverage invariant over a freshly segmented
// sequence: spans are contiguous from offset 0, non-overlapping, cover
// totalLen exactly, and entries[i].Index == i. A violation indicates a
// defect in the segmenter, so the returned error wraps ErrInternal.
func ValidateSequence(entries []CoreEntry, totalLen int) error {
	off := 0
	for i, e := range entries {
		if e.Index != i {
			return coreerrors.NewInternal("segmenter",
				fmt.Sprintf("entry at position %d has index %d", i, e.Index))
		}
		if !e.Kind.IsValid() {
			return coreerrors.NewInternal("segmenter",
				fmt.Sprintf("entry %d has unknown kind %q", i, e.Kind))
		}
		if e.Span.Off != off {
			return coreerrors.NewInternal("segmenter",
				fmt.Sprintf("entry %d starts at byte %d, expected %d", i, e.Span.Off, off))
		}
		if e.Span.Len <= 0 {
			return coreerrors.NewInternal("segmenter",
				fmt.Sprintf("entry %d has non-positive span length %d", i, e.Span.Len))
		}
		off = e.Span.End()
	}
	if off != totalLen {
		return coreerrors.NewInternal("segmenter",
			fmt.Sprintf("entries cover %d bytes, input has %d", off, totalLen))
	}
	return nil
}
