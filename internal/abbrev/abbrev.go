// Package abbrev removes abbreviation definitions from a text and expands
// the remaining abbreviated mentions to their full forms.  The first,
// defining occurrence of each abbreviation is deleted only when it is a
// parenthetical aside (`"<term> (<ABBV>)"`); every later whole-word
// occurrence is substituted with the full form.  All edits are expressed as
// replacement operations in original coordinates and applied in a single
// offset-tracked pass.
package abbrev

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/rewrite"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// DefinitionExtractor is the external abbreviation-definition extractor.
type DefinitionExtractor interface {
	Definitions(ctx context.Context, input string) ([]text.Abbreviation, error)
}

// EntityRecognizer is the external chemical entity recognizer; the
// eliminator uses it to locate the occurrences of each abbreviation that
// were recognized as entities.
type EntityRecognizer interface {
	Recognize(ctx context.Context, input string) ([]text.Mention, error)
}

// Eliminator rewrites texts so that no recognized chemical abbreviation
// survives in abbreviated form.
type Eliminator struct {
	extractor  DefinitionExtractor
	recognizer EntityRecognizer
	logger     logging.Logger
}

// NewEliminator wires an Eliminator.
func NewEliminator(extractor DefinitionExtractor, recognizer EntityRecognizer, logger logging.Logger) *Eliminator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Eliminator{extractor: extractor, recognizer: recognizer, logger: logger}
}

// candidate is one abbreviation scheduled for rewriting, keyed by the
// position of its earliest recognized occurrence.
type candidate struct {
	abbr     string
	fullForm string
	defining text.Mention
	order    int
}

// Process returns the text with abbreviation definitions removed and
// abbreviated mentions expanded.  Texts without extractable abbreviations
// come back unchanged.
func (e *Eliminator) Process(ctx context.Context, input string) (string, error) {
	defs, err := e.extractor.Definitions(ctx, input)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return input, nil
	}

	mentions, err := e.recognizer.Recognize(ctx, input)
	if err != nil {
		return "", err
	}

	candidates := e.collectCandidates(ctx, defs, mentions)
	if len(candidates) == 0 {
		return input, nil
	}

	// Earlier defining occurrences first; ties keep extractor order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].defining.Start != candidates[j].defining.Start {
			return candidates[i].defining.Start < candidates[j].defining.Start
		}
		return candidates[i].order < candidates[j].order
	})

	var ops []rewrite.Op
	for _, c := range candidates {
		ops = append(ops, e.opsFor(input, c)...)
	}
	ops = disjointSorted(ops)
	if len(ops) == 0 {
		return input, nil
	}

	res, err := rewrite.Apply(input, ops)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// collectCandidates pairs each linked abbreviation definition with the
// earliest recognized occurrence of its abbreviated form.  When the
// recognizer never tagged the abbreviation itself, the definition still
// qualifies if its full form is a recognized chemical entity; the linked
// parenthetical occurrence then serves as the defining span.  Definitions
// matching neither way are skipped: without a recognized chemical link
// there is no ground to rewrite.
func (e *Eliminator) collectCandidates(ctx context.Context, defs []text.Abbreviation, mentions []text.Mention) []candidate {
	var out []candidate
	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		if def.Linked == nil || def.Abbr == "" || len(def.FullForm) == 0 {
			continue
		}
		if _, dup := seen[def.Abbr]; dup {
			continue
		}
		fullForm := strings.Join(def.FullForm, " ")
		defining, ok := earliestMatch(mentions, def.Abbr)
		if !ok {
			if !e.chemicalFullForm(ctx, fullForm) {
				continue
			}
			defining = *def.Linked
		}
		seen[def.Abbr] = struct{}{}
		out = append(out, candidate{
			abbr:     def.Abbr,
			fullForm: fullForm,
			defining: defining,
			order:    i,
		})
	}
	return out
}

// chemicalFullForm reports whether the recognizer tags the expansion as a
// chemical entity when presented in isolation.
func (e *Eliminator) chemicalFullForm(ctx context.Context, fullForm string) bool {
	mentions, err := e.recognizer.Recognize(ctx, fullForm+" ")
	if err != nil {
		return false
	}
	return len(mentions) > 0
}

func earliestMatch(mentions []text.Mention, abbr string) (text.Mention, bool) {
	var best text.Mention
	found := false
	for _, m := range mentions {
		if m.Text != abbr {
			continue
		}
		if !found || m.Start < best.Start {
			best = m
			found = true
		}
	}
	return best, found
}

// opsFor builds the replacement ops for one abbreviation: a deletion of the
// defining parenthetical when it has the `" (ABBV)"` shape, and a full-form
// substitution for every other whole-word occurrence.
func (e *Eliminator) opsFor(input string, c candidate) []rewrite.Op {
	var ops []rewrite.Op

	defStart, defEnd := c.defining.Start, c.defining.End
	if isParenthetical(input, defStart, defEnd) {
		// Delete " (ABBV)" including the leading space and both parentheses.
		ops = append(ops, rewrite.Op{Start: defStart - 2, End: defEnd + 1})
	} else {
		e.logger.Debug("defining occurrence not parenthetical, leaving in place",
			logging.String("abbr", c.abbr))
	}

	re := wholeWord(c.abbr)
	for _, loc := range re.FindAllStringSubmatchIndex(input, -1) {
		start, end := loc[2], loc[3]
		if start == defStart {
			continue
		}
		ops = append(ops, rewrite.Op{Start: start, End: end, Replacement: c.fullForm})
	}
	return ops
}

// isParenthetical reports whether the span sits inside `" (…)"`: an opening
// parenthesis directly before, a closing one directly after, and a space
// before the opening parenthesis.
func isParenthetical(s string, start, end int) bool {
	return start >= 2 && end < len(s) &&
		s[start-1] == '(' && s[end] == ')' && s[start-2] == ' '
}

// wholeWord compiles a matcher for the abbreviation bounded by whitespace or
// sentence punctuation on both sides, with the abbreviation itself captured.
// Metacharacters in the surface (e.g. "+") are escaped.
func wholeWord(abbr string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[\s(])(` + regexp.QuoteMeta(abbr) + `)(?:[.,;:)\s]|$)`)
}

// disjointSorted sorts ops by start and drops any op overlapping a
// preceding one, so a single rewrite pass suffices.  Overlaps only arise
// when one abbreviation's expansion region collides with another's; the
// earlier (leftmost, first-scheduled) op wins.
func disjointSorted(ops []rewrite.Op) []rewrite.Op {
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Start < ops[j].Start })
	out := ops[:0]
	prevEnd := -1
	for _, op := range ops {
		if op.Start < prevEnd {
			continue
		}
		out = append(out, op)
		prevEnd = op.End
	}
	return out
}
