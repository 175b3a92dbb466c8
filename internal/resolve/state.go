// Package resolve disambiguates and canonicalizes chemical entity mentions
// against an external chemical-database lookup, memoizing every answer in an
// explicit session state so that a name is looked up at most once per
// session.  Resolution never aborts a batch: lookups that exhaust their
// retry budget degrade to self-canonical mentions recorded for audit.
package resolve

import (
	"sort"
	"sync"
)

// Record is the cached resolution outcome for one mention name.  A nil
// CID/IUPACName pair means the name could not be resolved and stands for
// itself.
type Record struct {
	CID       *int    `json:"cid"`
	IUPACName *string `json:"iupac_name"`
}

// Canonical returns the canonical form for the given surface name under
// this record: the IUPAC name when present, otherwise the surface itself.
func (r Record) Canonical(surface string) string {
	if r.IUPACName != nil {
		return *r.IUPACName
	}
	return surface
}

// State holds the session-wide resolution caches: mention → record, canonical
// name → synonym set, and the global occurrence counts.  It is passed by
// reference into every resolution call and serialized as a unit by the
// history store.  All mutation goes through the methods below; the mutex
// makes concurrent per-text resolution safe should a caller parallelize.
type State struct {
	mu sync.Mutex

	entityToCID      map[string]Record
	entityToSynonyms map[string][]string
	entityCounts     map[string]int
	timedOut         []string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		entityToCID:      make(map[string]Record),
		entityToSynonyms: make(map[string][]string),
		entityCounts:     make(map[string]int),
	}
}

// hardcodedOverrides pins ambiguous short forms that collide with element
// symbols (or are too generic to search) to fixed resolutions.  Seeded once;
// never overwritten by lookup results.
var hardcodedOverrides = []struct {
	surface string
	cid     int
	iupac   string
}{
	{"CO", 281, "carbon monoxide"},
	{"Co", 104730, "cobalt"},
	{"NO", 145068, "nitric oxide"},
	{"No", 24822, "nobelium"},
	{"sugar", 0, ""},
	{"chloro", 0, ""},
	{"alcohol", 0, ""},
}

// SeedOverrides installs the hardcoded override table into the state.
// Existing entries for the same surfaces are replaced; everything else is
// untouched, so seeding a loaded state is safe.
func (s *State) SeedOverrides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range hardcodedOverrides {
		if o.iupac == "" {
			s.entityToCID[o.surface] = Record{}
			continue
		}
		cid, iupac := o.cid, o.iupac
		s.entityToCID[o.surface] = Record{CID: &cid, IUPACName: &iupac}
		if !containsString(s.entityToSynonyms[iupac], o.surface) {
			s.entityToSynonyms[iupac] = append(s.entityToSynonyms[iupac], o.surface)
		}
	}
}

// lookupCached returns the cached record for name, if any.
func (s *State) lookupCached(name string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.entityToCID[name]
	return rec, ok
}

// storeResolved caches a resolution outcome and registers the surface as a
// synonym of the canonical name when one is present.  Synonym sets grow
// monotonically; duplicates are tolerated here and deduplicated at save time.
func (s *State) storeResolved(name string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entityToCID[name] = rec
	if rec.IUPACName != nil {
		s.entityToSynonyms[*rec.IUPACName] = append(s.entityToSynonyms[*rec.IUPACName], name)
	}
}

// countMention increments the occurrence count for the canonical form of a
// mention.  Called exactly once per mention processed.
func (s *State) countMention(canonical string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entityCounts[canonical]++
}

// recordTimeout adds a mention name to the timed-out audit list.
func (s *State) recordTimeout(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timedOut = append(s.timedOut, name)
}

// TimedOut returns a copy of the timed-out mention list.
func (s *State) TimedOut() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.timedOut))
	copy(out, s.timedOut)
	return out
}

// Count returns the occurrence count recorded for a canonical-or-surface name.
func (s *State) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityCounts[name]
}

// Synonyms returns a sorted, deduplicated copy of the synonym set for a
// canonical name.
func (s *State) Synonyms(canonical string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dedupeSorted(s.entityToSynonyms[canonical])
}

// Snapshot returns deep copies of the three cache tables with synonym sets
// deduplicated, suitable for serialization.  Taken while no resolution is in
// progress it is the checkpoint boundary of the session.
func (s *State) Snapshot() (entityToCID map[string]Record, entityToSynonyms map[string][]string, entityCounts map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entityToCID = make(map[string]Record, len(s.entityToCID))
	for k, v := range s.entityToCID {
		entityToCID[k] = v
	}
	entityToSynonyms = make(map[string][]string, len(s.entityToSynonyms))
	for k, v := range s.entityToSynonyms {
		entityToSynonyms[k] = dedupeSorted(v)
	}
	entityCounts = make(map[string]int, len(s.entityCounts))
	for k, v := range s.entityCounts {
		entityCounts[k] = v
	}
	return entityToCID, entityToSynonyms, entityCounts
}

// Restore replaces the cache tables, used when loading persisted history.
func (s *State) Restore(entityToCID map[string]Record, entityToSynonyms map[string][]string, entityCounts map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entityToCID != nil {
		s.entityToCID = entityToCID
	}
	if entityToSynonyms != nil {
		s.entityToSynonyms = entityToSynonyms
	}
	if entityCounts != nil {
		s.entityCounts = entityCounts
	}
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

func dedupeSorted(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}
