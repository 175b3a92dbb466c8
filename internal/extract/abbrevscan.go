package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// AbbrevScanner extracts abbreviation definitions of the form
// "long form (ABBV)" by validating each parenthetical short form against
// the words preceding it, in the manner of Schwartz & Hearst.
type AbbrevScanner struct{}

// NewAbbrevScanner constructs an AbbrevScanner.
func NewAbbrevScanner() *AbbrevScanner {
	return &AbbrevScanner{}
}

// parenRe finds parenthetical short-form candidates: 2-10 characters,
// starting with a letter, letters/digits/+- only.
var parenRe = regexp.MustCompile(`\(([A-Za-z][A-Za-z0-9+\-]{1,9})\)`)

// Definitions implements the abbreviation extractor contract declared by
// the abbrev package.  Each returned triple links the abbreviation to the
// mention span of its parenthesised occurrence.
func (s *AbbrevScanner) Definitions(_ context.Context, input string) ([]text.Abbreviation, error) {
	var defs []text.Abbreviation
	seen := make(map[string]struct{})

	for _, loc := range parenRe.FindAllStringSubmatchIndex(input, -1) {
		short := input[loc[2]:loc[3]]
		if !plausibleShortForm(short) {
			continue
		}
		if _, dup := seen[short]; dup {
			continue
		}

		long := bestLongForm(short, input[:loc[0]])
		if long == "" {
			continue
		}
		seen[short] = struct{}{}
		defs = append(defs, text.Abbreviation{
			Abbr:     short,
			FullForm: strings.Fields(long),
			Linked:   &text.Mention{Text: short, Start: loc[2], End: loc[3]},
		})
	}
	return defs, nil
}

// plausibleShortForm filters candidates: at least one uppercase letter and
// no more letters than a realistic abbreviation carries.
func plausibleShortForm(s string) bool {
	upper := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return upper >= 1
}

// bestLongForm scans the text before the parenthetical right to left,
// matching the short form's characters in order.  The first character of
// the short form must match at the start of a word.  Returns the matched
// long form, or "" when none is found within a bounded window.
func bestLongForm(short, before string) string {
	before = strings.TrimRight(before, " ")
	lowerBefore := strings.ToLower(before)
	lowerShort := strings.ToLower(short)

	// Bound the window: at most min(len(short)+5, 2*len(short)) words.
	maxWords := len(short) + 5
	if 2*len(short) < maxWords {
		maxWords = 2 * len(short)
	}
	windowStart := wordWindowStart(before, maxWords)

	sIndex := len(lowerShort) - 1
	lIndex := len(lowerBefore) - 1
	for sIndex >= 0 {
		c := rune(lowerShort[sIndex])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			sIndex--
			continue
		}
		for lIndex >= windowStart {
			if rune(lowerBefore[lIndex]) == c &&
				(sIndex > 0 || lIndex == 0 || !isAlnum(rune(lowerBefore[lIndex-1]))) {
				break
			}
			lIndex--
		}
		if lIndex < windowStart {
			return ""
		}
		sIndex--
		lIndex--
	}

	// Expand left to the start of the word containing the first match.
	start := lIndex + 1
	for start > 0 && isAlnum(rune(before[start-1])) {
		start--
	}
	return strings.TrimSpace(before[start:])
}

// wordWindowStart returns the byte offset where the last n words of s begin.
func wordWindowStart(s string, n int) int {
	inWord := false
	count := 0
	for i := len(s) - 1; i >= 0; i-- {
		alnum := isAlnum(rune(s[i]))
		if alnum && !inWord {
			inWord = true
			count++
		}
		if !alnum && inWord {
			inWord = false
			if count >= n {
				return i + 1
			}
		}
	}
	return 0
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
