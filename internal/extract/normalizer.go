package extract

import (
	"strings"
	"unicode"

	"github.com/turtacn/SciText-Prep/internal/chem"
	"github.com/turtacn/SciText-Prep/internal/token"
)

// MaterialsNormalizer is the casing and number post-processor for token
// sequences.  It lowercases sentence-case common words while leaving
// element symbols, formulas, units, acronyms and underscore-joined entity
// tokens untouched, canonicalizes numeric tokens (unicode minus, explicit
// plus) and optionally drops bare punctuation tokens.
type MaterialsNormalizer struct{}

// NewMaterialsNormalizer constructs a MaterialsNormalizer.
func NewMaterialsNormalizer() *MaterialsNormalizer {
	return &MaterialsNormalizer{}
}

// Normalize implements the token.TokenNormalizer contract.
func (n *MaterialsNormalizer) Normalize(tokens []string, opts token.NormalizeOptions) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if opts.ExcludePunct && chem.IsPunctuation(tok) {
			continue
		}
		out = append(out, normalizeToken(tok))
	}
	return out
}

func normalizeToken(tok string) string {
	if strings.Contains(tok, "_") {
		return tok
	}
	if isNumeric(tok) {
		return canonicalNumber(tok)
	}
	if keepCase(tok) {
		return tok
	}
	if isSentenceCase(tok) {
		return strings.ToLower(tok)
	}
	return tok
}

// keepCase reports whether a token's casing is meaningful: element
// symbols, chemical formulas, measurement units.
func keepCase(tok string) bool {
	if _, ok := chem.ElementName(tok); ok {
		return true
	}
	if chem.IsFormula(tok) {
		return true
	}
	return chem.IsSplitUnit(tok)
}

// isSentenceCase matches Titlecase words: one leading uppercase letter
// followed only by lowercase letters.  All-caps acronyms do not match.
func isSentenceCase(tok string) bool {
	runes := []rune(tok)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isNumeric(tok string) bool {
	seen := false
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			seen = true
		case r == '.' || r == ',' || r == '+' || r == '-' || r == '−':
		default:
			return false
		}
	}
	return seen
}

// canonicalNumber rewrites unicode minus to ASCII and drops a leading
// explicit plus.
func canonicalNumber(tok string) string {
	tok = strings.ReplaceAll(tok, "−", "-")
	return strings.TrimPrefix(tok, "+")
}
