package extract

import (
	"strings"
	"unicode"
)

// ChemWordTokenizer splits plain-text runs into word tokens while keeping
// chemistry-relevant structure intact: internal hyphens, decimal points,
// bracketed stoichiometry and underscore-joined entity tokens survive as
// single tokens, while surrounding punctuation is peeled off into tokens
// of its own.
type ChemWordTokenizer struct{}

// NewChemWordTokenizer constructs a ChemWordTokenizer.
func NewChemWordTokenizer() *ChemWordTokenizer {
	return &ChemWordTokenizer{}
}

// Tokenize implements the word tokenizer contract declared by the token
// package.
func (t *ChemWordTokenizer) Tokenize(run string) []string {
	var out []string
	for _, field := range strings.Fields(run) {
		out = append(out, splitField(field)...)
	}
	return out
}

// splitField peels leading and trailing punctuation off a whitespace-
// delimited field, leaving the core intact.
func splitField(field string) []string {
	if strings.Contains(field, "_") {
		// Entity tokens pass through untouched.
		return []string{field}
	}

	var lead, trail []string
	for len(field) > 0 {
		r := rune(field[0])
		if !isPeelable(r) {
			break
		}
		lead = append(lead, string(r))
		field = field[1:]
	}
	for len(field) > 0 {
		r := rune(field[len(field)-1])
		if !isPeelable(r) {
			break
		}
		if r == '.' && looksDecimalTail(field) {
			break
		}
		if (r == ')' || r == ']') && balancedBrackets(field) {
			break
		}
		trail = append([]string{string(r)}, trail...)
		field = field[:len(field)-1]
	}

	out := lead
	if field != "" {
		out = append(out, field)
	}
	return append(out, trail...)
}

func isPeelable(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '(', ')', '[', ']', '{', '}', '"', '\'', '“', '”', '‘', '’':
		return true
	}
	return false
}

// looksDecimalTail reports whether the trailing period is part of a
// number such as "1." inside "1.5" mid-strip.  A digit before the dot is
// not enough on its own: "373 K." should still lose its period.
func looksDecimalTail(field string) bool {
	if len(field) < 3 {
		return false
	}
	return unicode.IsDigit(rune(field[len(field)-2])) && strings.Count(field, ".") > 1
}

// balancedBrackets reports whether every closing bracket in the field has
// a matching opener, as in "Fe(III)" or "Li[Ni0.5Mn1.5]O4".
func balancedBrackets(field string) bool {
	depth := 0
	for _, r := range field {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0 && (strings.ContainsRune(field, '(') || strings.ContainsRune(field, '['))
}
