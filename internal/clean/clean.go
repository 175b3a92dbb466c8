// Package clean applies rules-based preprocessing to raw publisher
// abstracts: heading and section-title stripping, copyright tail removal,
// HTML tag removal, retraction-notice replacement and unicode NFC
// normalization.
package clean

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/SciText-Prep/internal/logging"
)

// MinLength is the shortest cleaned abstract kept by CleanCorpus.
const MinLength = 5

const retractionNotice = "This article has been retracted: please see Elsevier Policy on Article Withdrawal (https://www.elsevier.com/about/our-business/policies/article-withdrawal)."

// sectionTitles are standalone heading lines removed from multi-line
// abstracts.
var sectionTitles = map[string]struct{}{
	"introduction":                 {},
	"purpose":                      {},
	"background":                   {},
	"scope and approach":           {},
	"objective":                    {},
	"objectives":                   {},
	"materials and methods":        {},
	"results":                      {},
	"conclusion":                   {},
	"conclusions":                  {},
	"key findings":                 {},
	"key findings and conclusions": {},
	"methodology":                  {},
	"methods":                      {},
	"study design":                 {},
	"clinical implications":        {},
}

// abstractHeadings are leading heading lines (misspellings included) whose
// only job is to label the body.
var abstractHeadings = map[string]struct{}{
	"abstract":          {},
	"absract":           {},
	"abstact":           {},
	"abstractt":         {},
	"summary":           {},
	"publisher summary": {},
	"1. summary":        {},
}

var htmlTagRe = regexp.MustCompile(`<\w*>|</\w*>`)

// Cleaner removes unwanted publisher artifacts from abstracts.
type Cleaner struct {
	logger logging.Logger
}

// NewCleaner constructs a Cleaner.
func NewCleaner(logger logging.Logger) *Cleaner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Cleaner{logger: logger}
}

// Clean normalizes one abstract.  The result may be shorter than
// MinLength; CleanCorpus handles dropping.
func (c *Cleaner) Clean(abstract string) string {
	abstract = norm.NFC.String(abstract)

	var lines []string
	for _, line := range strings.Split(abstract, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var body string
	switch len(lines) {
	case 0:
		return ""
	case 1:
		body = stripInlineHeading(lines[0])
	case 2:
		// Heading line followed by the body.
		body = lines[1]
	default:
		body = joinSections(lines)
	}

	return removeSymbols(body)
}

// stripInlineHeading drops a leading "Abstract"/"Summary"/"Objective..."
// word from a single-line abstract.
func stripInlineHeading(line string) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return ""
	}
	first := strings.ToLower(words[0])
	if first == "abstract" || first == "summary" || strings.Contains(first, "objective") {
		return strings.Join(words[1:], " ")
	}
	return line
}

// joinSections collapses a multi-line abstract into one line, dropping
// heading and section-title lines.
func joinSections(lines []string) string {
	sectioned := false
	for _, line := range lines {
		if _, ok := sectionTitles[strings.ToLower(line)]; ok {
			sectioned = true
			break
		}
	}

	if sectioned {
		start := 0
		head := strings.ToLower(lines[0])
		if head == "abstract" || head == "summary" {
			start = 1
		}
		var kept []string
		for _, line := range lines[start:] {
			if _, ok := sectionTitles[strings.ToLower(line)]; ok {
				continue
			}
			kept = append(kept, line)
		}
		return strings.Join(kept, " ")
	}

	if _, ok := abstractHeadings[strings.ToLower(lines[0])]; ok {
		return strings.Join(lines[1:], " ")
	}
	if lines[0] == retractionNotice {
		return "Retracted"
	}
	return strings.Join(lines, " ")
}

// removeSymbols strips copyright tails, the registered-trademark sign and
// HTML tags.
func removeSymbols(abstract string) string {
	words := strings.Fields(abstract)

	if idx := indexOf(words, "©"); idx >= 0 {
		if idx > 0 {
			// Everything from the © onward is the copyright tail.
			words = words[:idx]
		} else if bv := firstIndexOf(words, "B.V.", "B.V.."); bv >= 0 {
			// Leading copyright block runs through the publisher name.
			words = words[bv+1:]
		} else {
			// "© <year>" prefix.
			if len(words) > 2 {
				words = words[2:]
			} else {
				words = nil
			}
		}
		abstract = strings.Join(words, " ")
	}

	abstract = strings.ReplaceAll(abstract, "®", "")
	abstract = strings.TrimSuffix(abstract, " Crown Copyright")
	abstract = htmlTagRe.ReplaceAllString(abstract, " ")
	return strings.TrimSpace(abstract)
}

func indexOf(words []string, target string) int {
	for i, w := range words {
		if w == target {
			return i
		}
	}
	return -1
}

func firstIndexOf(words []string, targets ...string) int {
	for _, t := range targets {
		if idx := indexOf(words, t); idx >= 0 {
			return idx
		}
	}
	return -1
}

// CleanCorpus cleans every abstract and drops the ones that end up
// shorter than MinLength.  The second return value lists the original
// indices of the dropped abstracts.
func (c *Cleaner) CleanCorpus(abstracts []string) ([]string, []int) {
	cleaned := make([]string, 0, len(abstracts))
	var dropped []int
	for i, a := range abstracts {
		out := c.Clean(a)
		if len(out) < MinLength {
			c.logger.Warn("dropping abstract below minimum length",
				logging.Int("index", i),
				logging.Int("length", len(out)))
			dropped = append(dropped, i)
			continue
		}
		cleaned = append(cleaned, out)
	}
	return cleaned, dropped
}
