// Package token converts normalized texts plus their entity span lists into
// token sequences.  Each text is partitioned into alternating plain-text and
// entity runs; plain runs go through the external chemistry-aware word
// tokenizer and the number/unit splitting rule, entity runs become single
// underscore-joined tokens, and the merged sequence carries an index from
// each entity to its final token position.  Sentence-level segmentation
// re-runs the same partition per sentence with spans remapped into
// sentence-local coordinates.
package token

import (
	"context"
	"strings"

	"github.com/turtacn/SciText-Prep/internal/chem"
	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/pkg/errors"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// WordTokenizer is the external chemistry-aware word tokenizer applied to
// plain-text runs.
type WordTokenizer interface {
	Tokenize(run string) []string
}

// SentenceSegmenter is the external sentence boundary detector.
type SentenceSegmenter interface {
	Split(input string) ([]text.Sentence, error)
}

// NormalizeOptions control the materials-text post-processor.  Material-name
// splitting and oxidation-state splitting stay disabled at this stage.
type NormalizeOptions struct {
	ExcludePunct       bool
	NormalizeMaterials bool
	SplitOxidation     bool
}

// TokenNormalizer is the external materials-text casing/number normalizer
// applied to every token run.
type TokenNormalizer interface {
	Normalize(tokens []string, opts NormalizeOptions) []string
}

// Options select the tokenization mode for a corpus.
type Options struct {
	// UseEntities enables entity-aware tokenization; requires one entity
	// record list per text.
	UseEntities bool
	// KeepSentences partitions each text's tokens into per-sentence lists.
	KeepSentences bool
	// ExcludePunct drops punctuation tokens in the normalization pass.
	ExcludePunct bool
}

// Result is the tokenization output for one text.  Exactly one of Tokens or
// Sentences is populated depending on Options.KeepSentences, with the
// matching entity index shape alongside.
type Result struct {
	Tokens            []string
	EntityIdx         []text.EntityIndex
	Sentences         [][]string
	SentenceEntityIdx [][]text.EntityIndex
}

// Tokenizer drives the tokenization of normalized texts.
type Tokenizer struct {
	words      WordTokenizer
	sentences  SentenceSegmenter
	normalizer TokenNormalizer
	logger     logging.Logger
}

// NewTokenizer wires a Tokenizer.
func NewTokenizer(words WordTokenizer, sentences SentenceSegmenter, normalizer TokenNormalizer, logger logging.Logger) *Tokenizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Tokenizer{words: words, sentences: sentences, normalizer: normalizer, logger: logger}
}

// TokenizeCorpus tokenizes every text.  When entity-aware tokenization is
// requested the entity record count must equal the text count; a mismatch
// is a fatal usage error raised before any processing.
func (t *Tokenizer) TokenizeCorpus(ctx context.Context, texts []string, entities [][]text.Entity, opts Options) ([]*Result, error) {
	if opts.UseEntities && len(texts) != len(entities) {
		return nil, errors.Newf(errors.ErrCodeEntityTextMismatch,
			"entity and text list sizes do not match (%d texts, %d entity records); run a normalization pass or load files of matching size",
			len(texts), len(entities))
	}

	results := make([]*Result, 0, len(texts))
	for i, input := range texts {
		var perText []text.Entity
		if opts.UseEntities {
			perText = entities[i]
		}
		res, err := t.TokenizeText(ctx, input, perText, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// TokenizeText tokenizes a single text with its entity records.
func (t *Tokenizer) TokenizeText(_ context.Context, input string, entities []text.Entity, opts Options) (*Result, error) {
	spans, err := entitySpans(input, entities)
	if err != nil {
		return nil, err
	}

	// Join multi-word entity names with underscores in place.  Canonical
	// names already occupy their spans, so the splice is length-preserving.
	joined := underscoreEntities(input, spans)

	if !opts.KeepSentences {
		tokens, idx := t.tokenizeRuns(joined, spans, opts)
		return &Result{Tokens: tokens, EntityIdx: idx}, nil
	}

	sentences, err := t.sentences.Split(joined)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSentenceSplit, "sentence segmentation failed")
	}

	res := &Result{
		Sentences:         make([][]string, 0, len(sentences)),
		SentenceEntityIdx: make([][]text.EntityIndex, 0, len(sentences)),
	}
	priorEnd := 0
	for _, sentence := range sentences {
		local := make([]span, 0, len(spans))
		for _, sp := range spans {
			// Keep only spans fully inside this sentence, remapped into
			// sentence-local coordinates.
			if sp.end <= sentence.End && sp.start >= priorEnd {
				local = append(local, span{start: sp.start - priorEnd, end: sp.end - priorEnd})
			}
		}
		tokens, idx := t.tokenizeRuns(sentence.Text, local, opts)
		res.Sentences = append(res.Sentences, tokens)
		res.SentenceEntityIdx = append(res.SentenceEntityIdx, idx)
		priorEnd = sentence.End
	}
	return res, nil
}

type span struct {
	start, end int
}

// entitySpans validates entity records against the text and returns their
// spans.  Unsorted or overlapping spans are a precondition violation.
func entitySpans(input string, entities []text.Entity) ([]span, error) {
	spans := make([]span, 0, len(entities))
	prevEnd := 0
	for i, ent := range entities {
		m := text.Mention{Text: ent.Name, Start: ent.Start, End: ent.End}
		if !m.Valid(len(input)) {
			return nil, errors.Newf(errors.ErrCodeSpanOutOfRange,
				"entity %q span [%d,%d) out of range for text of length %d", ent.Name, ent.Start, ent.End, len(input))
		}
		if ent.Start < prevEnd {
			if i > 0 && ent.Start < entities[i-1].Start {
				return nil, errors.Newf(errors.ErrCodeSpanUnsorted,
					"entity spans not sorted by start at index %d", i)
			}
			return nil, errors.Newf(errors.ErrCodeSpanOverlap,
				"entity %q span [%d,%d) overlaps preceding span ending at %d", ent.Name, ent.Start, ent.End, prevEnd)
		}
		spans = append(spans, span{start: ent.Start, end: ent.End})
		prevEnd = ent.End
	}
	return spans, nil
}

// underscoreEntities replaces internal whitespace inside each entity span
// with underscores so multi-word entities survive tokenization as single
// tokens.
func underscoreEntities(input string, spans []span) string {
	if len(spans) == 0 {
		return input
	}
	b := []byte(input)
	for _, sp := range spans {
		for i := sp.start; i < sp.end; i++ {
			if b[i] == ' ' {
				b[i] = '_'
			}
		}
	}
	return string(b)
}

// tokenizeRuns partitions input into plain/entity runs via spans, tokenizes
// the plain runs, emits each entity run as one token, and normalizes the
// merged sequence.  It returns the tokens and the entity index map.
func (t *Tokenizer) tokenizeRuns(input string, spans []span, opts Options) ([]string, []text.EntityIndex) {
	normOpts := NormalizeOptions{
		ExcludePunct:       opts.ExcludePunct,
		NormalizeMaterials: false,
		SplitOxidation:     false,
	}

	var tokens []string
	var idx []text.EntityIndex

	flushPlain := func(run string) {
		if run == "" {
			return
		}
		for _, tok := range t.words.Tokenize(run) {
			if number, unit, ok := chem.SplitNumberUnit(tok); ok {
				tokens = append(tokens, number, unit)
			} else {
				tokens = append(tokens, tok)
			}
		}
	}

	prev := 0
	for _, sp := range spans {
		flushPlain(input[prev:sp.start])
		tokens = append(tokens, input[sp.start:sp.end])
		idx = append(idx, text.EntityIndex{Name: input[sp.start:sp.end], TokenIndex: len(tokens) - 1})
		prev = sp.end
	}
	flushPlain(input[prev:])

	if t.normalizer != nil {
		before := len(tokens)
		tokens = t.normalizer.Normalize(tokens, normOpts)
		if len(tokens) != before {
			idx = remapAfterNormalize(tokens, idx)
		}
	}
	return tokens, idx
}

// remapAfterNormalize re-locates entity tokens after a normalization pass
// that dropped tokens (punctuation exclusion).  Entity tokens are matched
// by value in order; names are underscore-joined and unique enough within
// one text for positional matching.
func remapAfterNormalize(tokens []string, idx []text.EntityIndex) []text.EntityIndex {
	out := make([]text.EntityIndex, 0, len(idx))
	from := 0
	for _, e := range idx {
		for i := from; i < len(tokens); i++ {
			if tokens[i] == e.Name {
				out = append(out, text.EntityIndex{Name: e.Name, TokenIndex: i})
				from = i + 1
				break
			}
		}
	}
	return out
}

// Underscored returns the token form of a canonical entity name.
func Underscored(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
