// Package rebuild reconstructs output text from an entry sequence. With
// unedited entries it is the exact inverse of segmentation; with edited
// Text content it is a byte-for-byte splice. Rebuild is all-or-nothing:
// a corrupted index set produces an error, never partial output.
package rebuild

import (
	"sort"
	"strings"

	"github.com/sekai-tl/sekai-core/core/entry"
	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// Rebuild concatenates entry content in index order. Caller order is not
// trusted; entries are re-sorted on Index first. Indices must form
// exactly the set {0..n-1}: a repeat aborts with ErrDuplicateIndex, a
// gap with ErrMissingIndex. Content is appended verbatim, with no
// separators, re-escaping, or control-sequence re-validation: the caller
// owns its edits.
func Rebuild(entries []entry.CoreEntry) (string, error) {
	n := len(entries)
	if n == 0 {
		return "", nil
	}

	sorted := make([]entry.CoreEntry, n)
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	seen := make([]bool, n)
	for _, e := range sorted {
		if e.Index < 0 {
			return "", coreerrors.NewValidation("entries.index", "index must be non-negative")
		}
		if e.Index < n && seen[e.Index] {
			return "", coreerrors.NewDuplicateIndex(e.Index)
		}
		if e.Index < n {
			seen[e.Index] = true
		}
	}
	for i, ok := range seen {
		if !ok {
			return "", coreerrors.NewMissingIndex(i)
		}
	}

	var b strings.Builder
	for _, e := range sorted {
		b.WriteString(e.Content)
	}
	return b.String(), nil
}
