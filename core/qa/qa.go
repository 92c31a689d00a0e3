// Package qa runs consistency checks over an edited entry sequence
// before the caller commits to a rebuild. QA only reports; it never
// mutates entries and never fails.
package qa

import (
	"fmt"
	"unicode"

	"github.com/sekai-tl/sekai-core/core/entry"
)

// Issue codes.
const (
	CodeIndexOutOfOrder  = "INDEX_OUT_OF_ORDER"
	CodeEmptyText        = "EMPTY_TEXT"
	CodeMalformedControl = "MALFORMED_CONTROL"
	CodeUnbalancedTag    = "UNBALANCED_TAG"
	CodeWhitespaceEdited = "WHITESPACE_EDITED"
)

// Issue is one finding against one entry.
type Issue struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type openTag struct {
	name  string
	index int
}

// Run checks an entry sequence and returns all findings, in entry order.
func Run(entries []entry.CoreEntry) []Issue {
	issues := []Issue{}
	var stack []openTag

	for i, e := range entries {
		if e.Index != i {
			issues = append(issues, Issue{
				Index:   e.Index,
				Code:    CodeIndexOutOfOrder,
				Message: fmt.Sprintf("entry at position %d has index %d; rebuild will reject this sequence", i, e.Index),
			})
		}

		switch e.Kind {
		case entry.KindText:
			if e.Content == "" {
				issues = append(issues, Issue{
					Index:   e.Index,
					Code:    CodeEmptyText,
					Message: "text entry has empty content; the original text was lost in editing",
				})
			}

		case entry.KindWhitespace:
			for _, r := range e.Content {
				if !unicode.IsSpace(r) {
					issues = append(issues, Issue{
						Index:   e.Index,
						Code:    CodeWhitespaceEdited,
						Message: fmt.Sprintf("whitespace entry contains non-whitespace %q", r),
					})
					break
				}
			}

		case entry.KindControl:
			tag, ok := parseControl(e.Content)
			if !ok {
				issues = append(issues, Issue{
					Index:   e.Index,
					Code:    CodeMalformedControl,
					Message: fmt.Sprintf("control entry %q is neither a tag nor a command", e.Content),
				})
				break
			}
			if tag == nil {
				break // command, no balance tracking
			}
			if tag.Closing {
				if n := popTag(&stack, tag.Name); n < 0 {
					issues = append(issues, Issue{
						Index:   e.Index,
						Code:    CodeUnbalancedTag,
						Message: fmt.Sprintf("closing tag </%s> has no matching opener", tag.Name),
					})
				}
			} else if tag.Value != nil {
				// Valued tags (<color=red>) expect a closer; bare
				// speaker tags (<Yuki>) do not.
				stack = append(stack, openTag{name: tag.Name, index: e.Index})
			}
		}
	}

	for _, open := range stack {
		issues = append(issues, Issue{
			Index:   open.index,
			Code:    CodeUnbalancedTag,
			Message: fmt.Sprintf("tag <%s=...> is never closed", open.name),
		})
	}

	return issues
}

// popTag removes the most recent open tag with the given name and
// returns its position in the stack, or -1 if no such tag is open.
func popTag(stack *[]openTag, name string) int {
	s := *stack
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].name == name {
			*stack = append(s[:i], s[i+1:]...)
			return i
		}
	}
	return -1
}
