package extract

import (
	"strings"
	"unicode"

	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// Segmenter is a rule-based sentence splitter tuned for scientific prose.
// Sentences tile the input exactly: each sentence's text is the slice of
// the input from the previous sentence's end offset to its own end offset,
// so entity spans can be rebased by subtracting the previous end.
type Segmenter struct{}

// NewSegmenter constructs a Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// nonBreaking lists dotted tokens after which a period does not end a
// sentence.
var nonBreaking = map[string]struct{}{
	"e.g": {}, "i.e": {}, "cf": {}, "vs": {}, "al": {}, "etc": {},
	"fig": {}, "figs": {}, "eq": {}, "eqs": {}, "ref": {}, "refs": {},
	"no": {}, "ca": {}, "approx": {}, "dr": {}, "prof": {}, "jr": {},
	"sec": {}, "chap": {}, "vol": {},
}

// Split implements the segmenter contract declared by the token package.
func (s *Segmenter) Split(input string) ([]text.Sentence, error) {
	if input == "" {
		return nil, nil
	}

	var out []text.Sentence
	prevEnd := 0
	runes := []rune(input)
	byteAt := byteOffsets(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && !breaksAt(runes, i) {
			continue
		}
		// Consume any run of closing terminators (e.g. ".)", "?!").
		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?' || runes[j] == ')' || runes[j] == '"' || runes[j] == '\'') {
			j++
		}
		end := byteAt[j]
		out = append(out, text.Sentence{Text: input[prevEnd:end], End: end})
		prevEnd = end
		i = j - 1
	}
	if prevEnd < len(input) {
		if strings.TrimSpace(input[prevEnd:]) != "" {
			out = append(out, text.Sentence{Text: input[prevEnd:], End: len(input)})
		} else if len(out) > 0 {
			// Trailing whitespace belongs to the last sentence.
			last := &out[len(out)-1]
			last.Text = input[last.End-len(last.Text) : len(input)]
			last.End = len(input)
		}
	}
	return out, nil
}

// breaksAt reports whether the period at rune index i terminates a
// sentence.
func breaksAt(runes []rune, i int) bool {
	// Decimal numbers and dotted identifiers: 1.5, v2.0.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}
	// Next non-space rune must start a new sentence: uppercase, digit, or
	// end of input.
	j := i + 1
	for j < len(runes) && (runes[j] == ')' || runes[j] == '"' || runes[j] == '\'') {
		j++
	}
	if j < len(runes) && runes[j] != ' ' && runes[j] != '\n' && runes[j] != '\t' {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j < len(runes) && !unicode.IsUpper(runes[j]) && !unicode.IsDigit(runes[j]) && runes[j] != '(' {
		return false
	}
	// Preceding word must not be a known non-breaking abbreviation.
	start := i
	for start > 0 && (unicode.IsLetter(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	word := strings.ToLower(strings.Trim(string(runes[start:i]), "."))
	if _, ok := nonBreaking[word]; ok {
		return false
	}
	return true
}

// byteOffsets maps rune index -> byte offset, with one extra entry for the
// end of the string.
func byteOffsets(s string) []int {
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	offs = append(offs, len(s))
	return offs
}
