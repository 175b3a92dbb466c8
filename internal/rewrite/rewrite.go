// Package rewrite implements offset-tracking text rewriting: a list of
// replacement operations expressed in the coordinates of the original text
// is applied left to right while a running drift (the cumulative length
// delta of already-applied replacements) translates each original offset
// into the current buffer.  Keeping the original immutable and the drift
// arithmetic in one place lets every caller (abbreviation removal, entity
// canonicalization, tokenization) share the same bookkeeping.
package rewrite

import (
	"strings"

	"github.com/turtacn/SciText-Prep/pkg/errors"
)

// Span is a half-open [Start, End) byte range into a specific version of a
// text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether s fully contains other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Op is a single replacement operation in original coordinates: the text at
// [Start, End) is replaced by Replacement.  An empty Replacement deletes the
// span.
type Op struct {
	Start       int
	End         int
	Replacement string
}

// Validate checks a single op against the text length.
func (op Op) Validate(textLen int) error {
	if op.Start < 0 || op.End <= op.Start || op.End > textLen {
		return errors.Newf(errors.ErrCodeSpanOutOfRange,
			"replacement span [%d,%d) out of range for text of length %d", op.Start, op.End, textLen)
	}
	return nil
}

// ValidateOps checks that ops are individually in range, sorted by ascending
// Start in original coordinates, and pairwise disjoint.  Overlapping or
// unsorted input is a caller error, never silently reordered.
func ValidateOps(textLen int, ops []Op) error {
	prevEnd := 0
	for i, op := range ops {
		if err := op.Validate(textLen); err != nil {
			return err
		}
		if i > 0 && op.Start < ops[i-1].Start {
			return errors.Newf(errors.ErrCodeSpanUnsorted,
				"replacement op %d starts at %d, before preceding op at %d", i, op.Start, ops[i-1].Start)
		}
		if op.Start < prevEnd {
			return errors.Newf(errors.ErrCodeSpanOverlap,
				"replacement op %d [%d,%d) overlaps preceding op ending at %d", i, op.Start, op.End, prevEnd)
		}
		prevEnd = op.End
	}
	return nil
}

// Result carries the rewritten text and the mapping from each original span
// to its position in the rewritten text, in op order.  Drift is the total
// length delta after all ops.
type Result struct {
	Text  string
	Spans []Span
	Drift int
}

// Apply executes ops against text.  The k-th op splices at Start+drift,
// where drift is the cumulative length delta of ops 0..k-1; afterwards
// drift grows by len(Replacement) - (End - Start).  An empty op list
// returns the input unchanged with zero drift.
func Apply(text string, ops []Op) (*Result, error) {
	if err := ValidateOps(len(text), ops); err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return &Result{Text: text}, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	spans := make([]Span, 0, len(ops))
	drift := 0
	cursor := 0
	for _, op := range ops {
		b.WriteString(text[cursor:op.Start])
		b.WriteString(op.Replacement)

		newStart := op.Start + drift
		drift += len(op.Replacement) - (op.End - op.Start)
		spans = append(spans, Span{Start: newStart, End: op.End + drift})

		cursor = op.End
	}
	b.WriteString(text[cursor:])

	return &Result{Text: b.String(), Spans: spans, Drift: drift}, nil
}
