// Package extract bundles reference implementations of the external
// collaborators the preprocessing pipeline consumes: a dictionary/regex
// chemical entity tagger, an abbreviation-definition extractor, a rule-based
// sentence segmenter, a chemistry-aware word tokenizer, and a materials
// token normalizer.  Each one satisfies the interface declared by its
// consumer package and can be swapped for a model-backed service without
// touching the pipeline.
package extract

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/turtacn/SciText-Prep/internal/chem"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// Tagger recognizes chemical entity mentions by combining a name dictionary
// with the compound-formula and valence patterns.  It returns mentions
// ordered by appearance with overlaps resolved in favour of the longer span.
type Tagger struct {
	mu    sync.RWMutex
	names map[string]struct{} // lower-case known chemical names
}

// defaultChemicalNames seeds the tagger with common materials-science
// vocabulary so the pipeline is usable out of the box.  Real deployments
// extend it via AddName or replace the Tagger entirely.
var defaultChemicalNames = []string{
	"graphene", "graphene oxide", "graphite", "silica", "alumina", "titania",
	"water", "ethanol", "methanol", "acetone", "ammonia", "benzene", "toluene",
	"hydrogen peroxide", "sulfuric acid", "nitric acid", "hydrochloric acid",
	"sodium chloride", "sodium hydroxide", "potassium hydroxide",
	"carbon dioxide", "carbon monoxide", "nitric oxide", "nitrous oxide",
	"titanium dioxide", "zinc oxide", "iron oxide", "copper oxide",
	"lithium cobalt oxide", "lithium iron phosphate", "polyethylene",
	"polystyrene", "polyvinyl alcohol", "polyaniline", "nafion", "perovskite",
	"nuclear magnetic resonance",
}

// NewTagger constructs a Tagger seeded with the default name dictionary.
func NewTagger() *Tagger {
	t := &Tagger{names: make(map[string]struct{}, len(defaultChemicalNames))}
	for _, n := range defaultChemicalNames {
		t.names[n] = struct{}{}
	}
	return t
}

// AddName registers an additional dictionary name.
func (t *Tagger) AddName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
}

// Recognize implements the entity recognizer contract declared by the
// pipeline and abbrev packages.
func (t *Tagger) Recognize(_ context.Context, input string) ([]text.Mention, error) {
	words := wordSpans(input)

	var mentions []text.Mention

	// Multi-word dictionary names first: try the longest window (up to four
	// words) starting at each word.
	t.mu.RLock()
	for i := range words {
		for width := 4; width >= 1; width-- {
			if i+width > len(words) {
				continue
			}
			start := words[i].start
			end := words[i+width-1].end
			candidate := strings.ToLower(input[start:end])
			if _, ok := t.names[candidate]; ok {
				mentions = append(mentions, text.Mention{Text: input[start:end], Start: start, End: end})
				break
			}
		}
	}
	t.mu.RUnlock()

	// Formula and valence patterns on single words.
	for _, w := range words {
		surface := input[w.start:w.end]
		if isFormulaMention(surface) {
			mentions = append(mentions, text.Mention{Text: surface, Start: w.start, End: w.end})
			continue
		}
		if _, ok := chem.ExpandValence(surface); ok {
			mentions = append(mentions, text.Mention{Text: surface, Start: w.start, End: w.end})
		}
	}

	return resolveOverlaps(mentions), nil
}

// isFormulaMention gates the formula pattern to plausible chemical formulas:
// the pattern itself also matches ordinary capitalised words ("In", "As"),
// so require a digit or at least two uppercase letters.
func isFormulaMention(s string) bool {
	if len(s) < 2 || !chem.IsFormula(s) {
		return false
	}
	upper, digit := 0, false
	for _, r := range s {
		if unicode.IsUpper(r) {
			upper++
		}
		if unicode.IsDigit(r) {
			digit = true
		}
	}
	return digit || upper >= 2
}

type wordSpan struct {
	start, end int
}

// wordSpans finds word boundaries; a word char is a letter, digit, or one of
// the joining characters common in chemical names.
func wordSpans(s string) []wordSpan {
	var words []wordSpan
	inWord := false
	start := 0
	for i, r := range s {
		isWordChar := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '(' || r == ')' || r == '\''
		if isWordChar && !inWord {
			start = i
			inWord = true
		}
		if !isWordChar && inWord {
			words = append(words, trimParens(s, wordSpan{start: start, end: i}))
			inWord = false
		}
	}
	if inWord {
		words = append(words, trimParens(s, wordSpan{start: start, end: len(s)}))
	}
	return words
}

// trimParens strips enclosing or unmatched parentheses picked up by the
// word scan, e.g. "(NMR)" → "NMR", while keeping balanced internal pairs in
// valence forms like "Fe(III)".
func trimParens(s string, w wordSpan) wordSpan {
	for w.end-w.start >= 2 && s[w.start] == '(' && s[w.end-1] == ')' &&
		!strings.ContainsAny(s[w.start+1:w.end-1], "()") {
		w.start++
		w.end--
	}
	for w.start < w.end && s[w.start] == '(' && !strings.ContainsRune(s[w.start:w.end], ')') {
		w.start++
	}
	for w.start < w.end && s[w.end-1] == ')' && !strings.ContainsRune(s[w.start:w.end-1], '(') {
		w.end--
	}
	return w
}

// resolveOverlaps sorts mentions by start (longer first on ties) and keeps
// the first of any overlapping pair.
func resolveOverlaps(mentions []text.Mention) []text.Mention {
	if len(mentions) <= 1 {
		return mentions
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		if mentions[i].Start != mentions[j].Start {
			return mentions[i].Start < mentions[j].Start
		}
		return mentions[i].End-mentions[i].Start > mentions[j].End-mentions[j].Start
	})
	out := mentions[:0]
	prevEnd := -1
	for _, m := range mentions {
		if m.Start < prevEnd {
			continue
		}
		out = append(out, m)
		prevEnd = m.End
	}
	return out
}
