package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/SciText-Prep/internal/chem"
	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/pkg/errors"
)

// Compound is the best-match record returned by the external
// chemical-database lookup.  IUPACName may be empty when the database has no
// canonical name for the compound.
type Compound struct {
	CID       int
	IUPACName string
}

// ChemLookup is the external chemical-database contract.  LookupByName
// returns (nil, nil) for zero results; it may stall up to the caller's
// context deadline.
type ChemLookup interface {
	LookupByName(ctx context.Context, name string) (*Compound, error)
}

// LookupCache is an optional cross-session cache layered between the
// in-session state and the external lookup (e.g. Redis-backed).  A miss is
// (Record{}, false, nil).
type LookupCache interface {
	Get(ctx context.Context, name string) (Record, bool, error)
	Set(ctx context.Context, name string, rec Record) error
}

// Metrics records resolver telemetry.
type Metrics interface {
	RecordLookup(cacheHit bool)
	RecordLookupTimeout()
}

type noopMetrics struct{}

func (noopMetrics) RecordLookup(bool)      {}
func (noopMetrics) RecordLookupTimeout() {}

// Config tunes the resolver's timeout/retry policy.
type Config struct {
	// LookupTimeout bounds each individual lookup attempt.
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	// LookupAttempts is the number of attempts before a mention degrades to
	// unresolved.
	LookupAttempts int `mapstructure:"lookup_attempts"`
	// RetryBackoff is the pause between attempts.
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// DefaultConfig returns the documented defaults: 10 s per attempt, 10
// attempts, so the worst-case stall per unresolved mention is 100 s.
func DefaultConfig() Config {
	return Config{
		LookupTimeout:  10 * time.Second,
		LookupAttempts: 10,
		RetryBackoff:   100 * time.Millisecond,
	}
}

// Resolution is the outcome of resolving one mention.
type Resolution struct {
	// Name is the case-normalized mention name used as the cache key.
	Name string
	// Canonical is the replacement form: the IUPAC name when resolved,
	// otherwise Name itself.
	Canonical string
	// Record is the cached resolution record.
	Record Record
	// CacheHit is true when no external lookup was needed.
	CacheHit bool
}

// Resolver canonicalizes mention names through three tiers: hardcoded
// overrides and the in-session cache (both in State), an optional
// cross-session cache, and finally the external lookup.
type Resolver struct {
	lookup  ChemLookup
	shared  LookupCache
	config  Config
	metrics Metrics
	logger  logging.Logger
	group   singleflight.Group
}

// NewResolver wires a Resolver.  shared and metrics may be nil.
func NewResolver(lookup ChemLookup, shared LookupCache, config Config, metrics Metrics, logger logging.Logger) *Resolver {
	if config.LookupTimeout <= 0 {
		config.LookupTimeout = DefaultConfig().LookupTimeout
	}
	if config.LookupAttempts <= 0 {
		config.LookupAttempts = DefaultConfig().LookupAttempts
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = DefaultConfig().RetryBackoff
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		lookup:  lookup,
		shared:  shared,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// NormalizeMention applies the mention-name rules before any cache or
// lookup: an "element + Roman-numeral valence" mention is rewritten with
// the full element name ("Fe(III)" → "iron(III)"); a compound-formula
// mention keeps its case; everything else is lowercased.
func NormalizeMention(surface string) string {
	if expanded, ok := chem.ExpandValence(surface); ok {
		surface = expanded
	}
	if chem.IsFormula(surface) {
		return surface
	}
	return strings.ToLower(surface)
}

// Resolve canonicalizes one mention and increments its occurrence count
// exactly once.  A lookup that exhausts the retry budget records the name
// in the timed-out list and degrades to a self-canonical resolution; the
// returned error is nil in that case because the batch must continue.
func (r *Resolver) Resolve(ctx context.Context, st *State, surface string) (Resolution, error) {
	name := NormalizeMention(surface)

	if rec, ok := st.lookupCached(name); ok {
		canonical := rec.Canonical(name)
		st.countMention(canonical)
		r.metrics.RecordLookup(true)
		return Resolution{Name: name, Canonical: canonical, Record: rec, CacheHit: true}, nil
	}

	rec, err := r.fetch(ctx, st, name)
	if err != nil {
		return Resolution{}, err
	}

	st.storeResolved(name, rec)
	canonical := rec.Canonical(name)
	st.countMention(canonical)
	r.metrics.RecordLookup(false)
	return Resolution{Name: name, Canonical: canonical, Record: rec}, nil
}

// fetch resolves a name not present in the session cache: first the shared
// cross-session cache, then the external lookup under the timeout/retry
// policy.  Concurrent fetches of the same name are collapsed.
func (r *Resolver) fetch(ctx context.Context, st *State, name string) (Record, error) {
	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		if r.shared != nil {
			if rec, ok, cacheErr := r.shared.Get(ctx, name); cacheErr != nil {
				r.logger.Warn("shared lookup cache unavailable", logging.String("name", name), logging.Err(cacheErr))
			} else if ok {
				return rec, nil
			}
		}

		rec, lookErr := r.externalLookup(ctx, name)
		if lookErr != nil {
			if ctx.Err() != nil {
				// The batch itself was cancelled; propagate.
				return Record{}, ctx.Err()
			}
			r.logger.Warn("entity lookup exhausted retry budget, treating as unresolved",
				logging.String("name", name),
				logging.Int("attempts", r.config.LookupAttempts),
				logging.Err(lookErr))
			st.recordTimeout(name)
			r.metrics.RecordLookupTimeout()
			return Record{}, nil
		}

		if r.shared != nil {
			if cacheErr := r.shared.Set(ctx, name, rec); cacheErr != nil {
				r.logger.Debug("shared lookup cache write failed", logging.String("name", name), logging.Err(cacheErr))
			}
		}
		return rec, nil
	})
	if err != nil {
		return Record{}, err
	}
	return v.(Record), nil
}

// externalLookup performs the bounded lookup attempts.  Every attempt gets
// its own deadline; timeouts and transport errors are retried up to the
// attempt budget.
func (r *Resolver) externalLookup(ctx context.Context, name string) (Record, error) {
	var rec Record
	backoff := retry.WithMaxRetries(uint64(r.config.LookupAttempts-1), retry.NewConstant(r.config.RetryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.config.LookupTimeout)
		defer cancel()

		compound, err := r.lookup.LookupByName(attemptCtx, name)
		if err != nil {
			return retry.RetryableError(err)
		}
		rec = recordFromCompound(compound)
		return nil
	})
	if err != nil {
		return Record{}, errors.Wrap(err, errors.ErrCodeLookupTimeout, "lookup for '"+name+"' failed")
	}
	return rec, nil
}

// recordFromCompound maps a lookup result to a cache record.  Zero results
// and results without a canonical name both cache the mention to itself.
func recordFromCompound(c *Compound) Record {
	if c == nil {
		return Record{}
	}
	cid := c.CID
	if c.IUPACName == "" {
		return Record{CID: &cid}
	}
	iupac := c.IUPACName
	return Record{CID: &cid, IUPACName: &iupac}
}
