// Package parser splits decoded script text into an ordered sequence of
// typed entries without losing a single byte. Segmentation is the
// forward half of the round-trip law: rebuilding an unedited sequence
// must reproduce the input exactly.
package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/sekai-tl/sekai-core/core/entry"
)

// Segment scans text left to right and emits one entry per maximal run
// of a single kind. Classification is greedy longest-match in fixed
// priority order: control sequence > whitespace > text > other.
// Boundaries always fall on character boundaries of the decoded text;
// spans are byte offsets into the UTF-8 input.
func Segment(text string) ([]entry.CoreEntry, error) {
	var entries []entry.CoreEntry
	i := 0
	for i < len(text) {
		start := i
		var kind entry.Kind

		if n := controlLen(text, i); n > 0 {
			kind = entry.KindControl
			i += n
		} else {
			r, w := utf8.DecodeRuneInString(text[i:])
			switch {
			case isWhitespace(r, w):
				kind = entry.KindWhitespace
				i += w
				for i < len(text) {
					r, w = utf8.DecodeRuneInString(text[i:])
					if !isWhitespace(r, w) {
						break
					}
					i += w
				}
			case isTextual(r, w):
				kind = entry.KindText
				i += w
				for i < len(text) {
					if controlLen(text, i) > 0 {
						break
					}
					r, w = utf8.DecodeRuneInString(text[i:])
					if !isTextual(r, w) {
						break
					}
					i += w
				}
			default:
				kind = entry.KindOther
				i += w
				for i < len(text) {
					r, w = utf8.DecodeRuneInString(text[i:])
					if isWhitespace(r, w) || isTextual(r, w) || controlLen(text, i) > 0 {
						break
					}
					i += w
				}
			}
		}

		entries = append(entries, entry.CoreEntry{
			Index:   len(entries),
			Kind:    kind,
			Content: text[start:i],
			Span:    entry.Span{Off: start, Len: i - start},
		})
	}

	if err := entry.ValidateSequence(entries, len(text)); err != nil {
		return nil, err
	}
	return entries, nil
}

// isWhitespace reports whether the decoded rune is whitespace. A bare
// invalid byte (RuneError of width 1) is never whitespace.
func isWhitespace(r rune, w int) bool {
	if r == utf8.RuneError && w == 1 {
		return false
	}
	return unicode.IsSpace(r)
}

// isTextual reports whether the rune belongs in a text run: a graphic,
// non-whitespace character. Invalid bytes and control/format characters
// fall through to the other kind.
func isTextual(r rune, w int) bool {
	if r == utf8.RuneError && w == 1 {
		return false
	}
	return unicode.IsGraphic(r) && !unicode.IsSpace(r)
}

// controlLen reports the byte length of the control sequence starting at
// i, or 0 if none starts there. Control sequences follow the source-text
// convention of the supported engine scripts: <...> tags and [...]
// commands, complete on a single line, non-empty, and not containing a
// nested opener of the same type. An opener that never closes is
// ordinary text.
func controlLen(s string, i int) int {
	opener := s[i]
	var closer byte
	switch opener {
	case '<':
		closer = '>'
	case '[':
		closer = ']'
	default:
		return 0
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\n', '\r', opener:
			return 0
		case closer:
			if j == i+1 {
				return 0
			}
			return j - i + 1
		}
	}
	return 0
}
