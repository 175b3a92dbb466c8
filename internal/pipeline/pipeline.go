// Package pipeline orchestrates the full preprocessing run: cleaning,
// abbreviation elimination, entity recognition and resolution, offset-
// tracked rewriting, and tokenization, with periodic checkpointing of the
// session state through the history store.
package pipeline

import (
	"context"
	"time"

	"github.com/turtacn/SciText-Prep/internal/abbrev"
	"github.com/turtacn/SciText-Prep/internal/clean"
	"github.com/turtacn/SciText-Prep/internal/history"
	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/resolve"
	"github.com/turtacn/SciText-Prep/internal/rewrite"
	"github.com/turtacn/SciText-Prep/internal/token"
	"github.com/turtacn/SciText-Prep/pkg/errors"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// Source selects where a stage takes its input texts from.
type Source int

const (
	// SourceExplicit processes the texts passed to the call.
	SourceExplicit Source = iota
	// SourceCleaned runs the cleaner over the passed texts first.
	SourceCleaned
	// SourceNormalized reuses the session's normalized texts.
	SourceNormalized
)

// Session is the mutable state of one preprocessing run.  Everything a
// stage caches lives here and is passed explicitly; the history store
// serializes it as a unit.
type Session struct {
	// State holds the entity resolution caches and counts.
	State *resolve.State
	// NormalizedTexts accumulates the output of normalization, in order.
	NormalizedTexts []string
	// EntitiesPerText maps normalized-text index to its entity records.
	EntitiesPerText map[int][]text.Entity
	// DroppedIdxs lists original corpus indices removed during cleaning.
	DroppedIdxs []int
}

// NewSession returns an empty session with the hardcoded resolution
// overrides seeded.
func NewSession() *Session {
	st := resolve.NewState()
	st.SeedOverrides()
	return &Session{
		State:           st,
		EntitiesPerText: make(map[int][]text.Entity),
	}
}

// Telemetry receives pipeline-level counters.  All methods must be safe
// for nil-free no-op use via NopTelemetry.
type Telemetry interface {
	TextProcessed(d time.Duration)
	TextDropped()
	EntityResolved()
}

type nopTelemetry struct{}

func (nopTelemetry) TextProcessed(time.Duration) {}
func (nopTelemetry) TextDropped()                {}
func (nopTelemetry) EntityResolved()             {}

// NopTelemetry returns a Telemetry that discards everything.
func NopTelemetry() Telemetry { return nopTelemetry{} }

// Config controls pipeline behaviour.
type Config struct {
	// RemoveAbbreviations runs the abbreviation eliminator before entity
	// recognition.
	RemoveAbbreviations bool
	// Save enables checkpointing through the history store.
	Save bool
	// SaveFreq is the number of texts between checkpoints.
	SaveFreq int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{RemoveAbbreviations: true, Save: false, SaveFreq: 100}
}

// Pipeline wires the stages together.  Cleaner, eliminator, store and
// telemetry are optional; recognizer and resolver are required for
// normalization, tokenizer for tokenization.
type Pipeline struct {
	cleaner    *clean.Cleaner
	eliminator *abbrev.Eliminator
	recognizer abbrev.EntityRecognizer
	resolver   *resolve.Resolver
	tokenizer  *token.Tokenizer
	store      *history.Store
	telemetry  Telemetry
	config     Config
	logger     logging.Logger
}

// New constructs a Pipeline.
func New(
	cleaner *clean.Cleaner,
	eliminator *abbrev.Eliminator,
	recognizer abbrev.EntityRecognizer,
	resolver *resolve.Resolver,
	tokenizer *token.Tokenizer,
	store *history.Store,
	telemetry Telemetry,
	config Config,
	logger logging.Logger,
) *Pipeline {
	if telemetry == nil {
		telemetry = nopTelemetry{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if config.SaveFreq <= 0 {
		config.SaveFreq = DefaultConfig().SaveFreq
	}
	return &Pipeline{
		cleaner:    cleaner,
		eliminator: eliminator,
		recognizer: recognizer,
		resolver:   resolver,
		tokenizer:  tokenizer,
		store:      store,
		telemetry:  telemetry,
		config:     config,
		logger:     logger,
	}
}

// Normalize cleans (per source), eliminates abbreviations, resolves every
// recognized entity and rewrites each text, appending the results to the
// session.  Cancellation is honored between texts; the text in flight
// always completes.
func (p *Pipeline) Normalize(ctx context.Context, session *Session, texts []string, source Source) error {
	if source == SourceCleaned {
		if p.cleaner == nil {
			return errors.New(errors.ErrCodeInvalidInput, "cleaning requested but no cleaner configured")
		}
		var dropped []int
		texts, dropped = p.cleaner.CleanCorpus(texts)
		session.DroppedIdxs = append(session.DroppedIdxs, dropped...)
		for range dropped {
			p.telemetry.TextDropped()
		}
	}

	for n, input := range texts {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrCodeTimeout, "normalization stopped")
		}
		started := time.Now()

		normalized, entities, err := p.normalizeText(ctx, session, input)
		if err != nil {
			if errors.IsFatal(err) {
				return err
			}
			p.logger.Warn("skipping text after non-fatal error",
				logging.Int("index", n), logging.Err(err))
			p.telemetry.TextDropped()
			continue
		}

		idx := len(session.NormalizedTexts)
		session.NormalizedTexts = append(session.NormalizedTexts, normalized)
		session.EntitiesPerText[idx] = entities
		p.telemetry.TextProcessed(time.Since(started))

		if p.config.Save && p.store != nil && (idx+1)%p.config.SaveFreq == 0 {
			if err := p.checkpoint(session); err != nil {
				return err
			}
		}
	}

	if p.config.Save && p.store != nil {
		return p.checkpoint(session)
	}
	return nil
}

// normalizeText runs one text through abbreviation elimination, entity
// recognition, resolution, and a single rewrite pass.  The returned entity
// records carry the canonical name, its span in the rewritten text, and
// the original surface form.
func (p *Pipeline) normalizeText(ctx context.Context, session *Session, input string) (string, []text.Entity, error) {
	if input == "" {
		return "", nil, errors.New(errors.ErrCodeTextEmpty, "empty text")
	}

	if p.config.RemoveAbbreviations && p.eliminator != nil {
		expanded, err := p.eliminator.Process(ctx, input)
		if err != nil {
			return "", nil, err
		}
		input = expanded
	}

	mentions, err := p.recognizer.Recognize(ctx, input)
	if err != nil {
		return "", nil, err
	}
	if len(mentions) == 0 {
		return input, nil, nil
	}

	ops := make([]rewrite.Op, 0, len(mentions))
	surfaces := make([]string, 0, len(mentions))
	for _, m := range mentions {
		res, err := p.resolver.Resolve(ctx, session.State, m.Text)
		if err != nil {
			return "", nil, err
		}
		p.telemetry.EntityResolved()
		ops = append(ops, rewrite.Op{Start: m.Start, End: m.End, Replacement: res.Canonical})
		surfaces = append(surfaces, m.Text)
	}

	result, err := rewrite.Apply(input, ops)
	if err != nil {
		return "", nil, err
	}

	entities := make([]text.Entity, len(ops))
	for i, sp := range result.Spans {
		entities[i] = text.Entity{
			Name:    ops[i].Replacement,
			Start:   sp.Start,
			End:     sp.End,
			Surface: surfaces[i],
		}
	}
	return result.Text, entities, nil
}

// Tokenize converts texts into token sequences.  SourceNormalized uses the
// session's accumulated texts and their entity records; SourceExplicit
// tokenizes the passed texts without entity awareness.
func (p *Pipeline) Tokenize(ctx context.Context, session *Session, texts []string, source Source, opts token.Options) (map[int]token.Result, error) {
	var entities [][]text.Entity
	switch source {
	case SourceNormalized:
		texts = session.NormalizedTexts
		if opts.UseEntities {
			entities = make([][]text.Entity, len(texts))
			for i := range texts {
				entities[i] = session.EntitiesPerText[i]
			}
		}
	case SourceExplicit:
		if opts.UseEntities {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"entity-aware tokenization requires session texts")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported tokenization source")
	}

	results, err := p.tokenizer.TokenizeCorpus(ctx, texts, entities, opts)
	if err != nil {
		return nil, err
	}

	out := make(map[int]token.Result, len(results))
	for i, r := range results {
		out[i] = *r
	}

	if p.config.Save && p.store != nil {
		if err := p.store.SaveTokenized(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checkpoint persists the whole session.
func (p *Pipeline) checkpoint(session *Session) error {
	if err := p.store.SaveNormalizedTexts(session.NormalizedTexts); err != nil {
		return err
	}
	if err := p.store.SaveSearchHistory(session.State); err != nil {
		return err
	}
	if err := p.store.SavePreprocessHistory(session.EntitiesPerText, session.State); err != nil {
		return err
	}
	if err := p.store.SaveRunMetadata(len(session.NormalizedTexts)); err != nil {
		return err
	}
	p.logger.Info("session checkpoint written",
		logging.Int("texts", len(session.NormalizedTexts)),
		logging.String("dir", p.store.Dir()))
	return nil
}

// Restore loads a previous session from the history store.
func (p *Pipeline) Restore(session *Session) error {
	if p.store == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no history store configured")
	}
	texts, err := p.store.LoadNormalizedTexts()
	if err != nil {
		return err
	}
	if err := p.store.LoadSearchHistory(session.State); err != nil {
		return err
	}
	perText, err := p.store.LoadPreprocessHistory(session.State)
	if err != nil {
		return err
	}
	session.NormalizedTexts = texts
	session.EntitiesPerText = perText
	return nil
}
