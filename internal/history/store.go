// Package history persists and restores the preprocessing session state:
// normalized texts, the resolution caches, the per-text entity records and
// global counts, and tokenization output.  The on-disk layout is one
// directory of JSON files plus a plain-text file for the normalized texts.
// Load failures are fatal: a malformed history file means the session it
// came from cannot be trusted, so there is no partial recovery.
package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/SciText-Prep/internal/logging"
	"github.com/turtacn/SciText-Prep/internal/resolve"
	"github.com/turtacn/SciText-Prep/internal/token"
	"github.com/turtacn/SciText-Prep/pkg/errors"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

// File names within the store directory.
const (
	NormalizedTextsFile     = "normalized_texts.txt"
	SearchHistoryFile       = "search_history.json"
	PreprocessHistoryFile   = "preprocess_history.json"
	TokenizedTextsFile      = "tokenized_texts.json"
	TokenizedEntityIdxsFile = "tokenized_entity_idxs.json"
	RunMetadataFile         = "run_metadata.json"
)

// Store reads and writes session history files under a single directory.
type Store struct {
	dir    string
	runID  string
	logger logging.Logger
}

// NewStore constructs a Store rooted at dir.  The directory is created on
// first save.
func NewStore(dir string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{dir: dir, runID: uuid.NewString(), logger: logger}
}

// RunID returns the session identifier stamped into run metadata.
func (s *Store) RunID() string { return s.runID }

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

type searchHistory struct {
	EntityToCID      map[string]resolve.Record `json:"entity_to_cid"`
	EntityToSynonyms map[string][]string       `json:"entity_to_synonyms"`
}

type preprocessHistory struct {
	EntitiesPerText map[int][]text.Entity `json:"entities_per_text"`
	EntityCounts    map[string]int        `json:"entity_counts"`
}

type runMetadata struct {
	RunID      string    `json:"run_id"`
	SavedAt    time.Time `json:"saved_at"`
	TextsSaved int       `json:"texts_saved"`
}

// SaveNormalizedTexts writes one normalized text per line.
func (s *Store) SaveNormalizedTexts(texts []string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.dir, NormalizedTextsFile))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryWrite, "creating normalized texts file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, t := range texts {
		if _, err := w.WriteString(t + "\n"); err != nil {
			return errors.Wrap(err, errors.ErrCodeHistoryWrite, "writing normalized texts")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryWrite, "flushing normalized texts")
	}
	return nil
}

// LoadNormalizedTexts reads the normalized texts file, one text per line.
func (s *Store) LoadNormalizedTexts() ([]string, error) {
	f, err := os.Open(filepath.Join(s.dir, NormalizedTextsFile))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryRead, "opening normalized texts file")
	}
	defer f.Close()

	var texts []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		texts = append(texts, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryRead, "reading normalized texts")
	}
	return texts, nil
}

// SaveSearchHistory persists the resolution caches of st.
func (s *Store) SaveSearchHistory(st *resolve.State) error {
	toCID, toSynonyms, _ := st.Snapshot()
	return s.writeJSON(SearchHistoryFile, searchHistory{
		EntityToCID:      toCID,
		EntityToSynonyms: toSynonyms,
	})
}

// LoadSearchHistory restores the resolution caches into st so previously
// resolved names are not looked up again.
func (s *Store) LoadSearchHistory(st *resolve.State) error {
	var h searchHistory
	if err := s.readJSON(SearchHistoryFile, &h); err != nil {
		return err
	}
	_, _, counts := st.Snapshot()
	st.Restore(h.EntityToCID, h.EntityToSynonyms, counts)
	return nil
}

// SavePreprocessHistory persists the per-text entity records together with
// the global occurrence counts from st.
func (s *Store) SavePreprocessHistory(entitiesPerText map[int][]text.Entity, st *resolve.State) error {
	_, _, counts := st.Snapshot()
	return s.writeJSON(PreprocessHistoryFile, preprocessHistory{
		EntitiesPerText: entitiesPerText,
		EntityCounts:    counts,
	})
}

// LoadPreprocessHistory restores per-text entity records and merges the
// saved counts into st.
func (s *Store) LoadPreprocessHistory(st *resolve.State) (map[int][]text.Entity, error) {
	var h preprocessHistory
	if err := s.readJSON(PreprocessHistoryFile, &h); err != nil {
		return nil, err
	}
	toCID, toSynonyms, _ := st.Snapshot()
	st.Restore(toCID, toSynonyms, h.EntityCounts)
	if h.EntitiesPerText == nil {
		h.EntitiesPerText = make(map[int][]text.Entity)
	}
	return h.EntitiesPerText, nil
}

// tokenizedView is the serialized shape of one tokenization result: a flat
// token list, or one list per sentence.
type tokenizedView struct {
	flat      []string
	sentences [][]string
}

func (v tokenizedView) MarshalJSON() ([]byte, error) {
	if v.sentences != nil {
		return json.Marshal(v.sentences)
	}
	return json.Marshal(v.flat)
}

func (v *tokenizedView) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &v.sentences); err == nil {
		return nil
	}
	v.sentences = nil
	return json.Unmarshal(data, &v.flat)
}

type entityIdxView struct {
	flat      []text.EntityIndex
	sentences [][]text.EntityIndex
}

func (v entityIdxView) MarshalJSON() ([]byte, error) {
	if v.sentences != nil {
		return json.Marshal(v.sentences)
	}
	if v.flat == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.flat)
}

func (v *entityIdxView) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &v.sentences); err == nil {
		return nil
	}
	v.sentences = nil
	return json.Unmarshal(data, &v.flat)
}

// SaveTokenized persists the per-text token sequences and entity index
// maps.  Sentence-mode results keep their nested shape.
func (s *Store) SaveTokenized(results map[int]token.Result) error {
	texts := make(map[int]tokenizedView, len(results))
	idxs := make(map[int]entityIdxView, len(results))
	for i, r := range results {
		texts[i] = tokenizedView{flat: r.Tokens, sentences: r.Sentences}
		idxs[i] = entityIdxView{flat: r.EntityIdx, sentences: r.SentenceEntityIdx}
	}
	if err := s.writeJSON(TokenizedTextsFile, texts); err != nil {
		return err
	}
	return s.writeJSON(TokenizedEntityIdxsFile, idxs)
}

// LoadTokenized restores the per-text tokenization results.
func (s *Store) LoadTokenized() (map[int]token.Result, error) {
	var texts map[int]tokenizedView
	if err := s.readJSON(TokenizedTextsFile, &texts); err != nil {
		return nil, err
	}
	var idxs map[int]entityIdxView
	if err := s.readJSON(TokenizedEntityIdxsFile, &idxs); err != nil {
		return nil, err
	}

	out := make(map[int]token.Result, len(texts))
	for i, v := range texts {
		r := token.Result{Tokens: v.flat, Sentences: v.sentences}
		if iv, ok := idxs[i]; ok {
			r.EntityIdx = iv.flat
			r.SentenceEntityIdx = iv.sentences
		}
		out[i] = r
	}
	return out, nil
}

// SaveRunMetadata stamps the session id and save time.
func (s *Store) SaveRunMetadata(textsSaved int) error {
	return s.writeJSON(RunMetadataFile, runMetadata{
		RunID:      s.runID,
		SavedAt:    time.Now().UTC(),
		TextsSaved: textsSaved,
	})
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryWrite, "creating history directory")
	}
	return nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryWrite, "serializing "+name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryWrite, "writing "+name)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryRead, "reading "+name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryMalformed, "parsing "+name)
	}
	return nil
}
