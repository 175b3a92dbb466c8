package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SciText-Prep/internal/resolve"
	"github.com/turtacn/SciText-Prep/internal/token"
	"github.com/turtacn/SciText-Prep/pkg/errors"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

func TestNormalizedTextsRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	texts := []string{
		"carbon monoxide adsorbs on platinum",
		"titanium dioxide is photoactive",
	}
	require.NoError(t, s.SaveNormalizedTexts(texts))

	got, err := s.LoadNormalizedTexts()
	require.NoError(t, err)
	assert.Equal(t, texts, got)
}

func TestSearchHistoryRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	st := resolve.NewState()
	st.SeedOverrides()
	require.NoError(t, s.SaveSearchHistory(st))

	restored := resolve.NewState()
	require.NoError(t, s.LoadSearchHistory(restored))

	toCID, toSyn, _ := restored.Snapshot()
	rec, ok := toCID["CO"]
	require.True(t, ok)
	require.NotNil(t, rec.CID)
	assert.Equal(t, 281, *rec.CID)
	assert.Equal(t, "carbon monoxide", rec.Canonical("CO"))
	assert.Contains(t, toSyn["carbon monoxide"], "CO")
}

func TestPreprocessHistoryRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	st := resolve.NewState()
	perText := map[int][]text.Entity{
		0: {{Name: "carbon monoxide", Start: 4, End: 19, Surface: "CO"}},
		2: {{Name: "titanium dioxide", Start: 0, End: 16, Surface: "TiO2"}},
	}
	require.NoError(t, s.SavePreprocessHistory(perText, st))

	restored := resolve.NewState()
	got, err := s.LoadPreprocessHistory(restored)
	require.NoError(t, err)
	assert.Equal(t, perText, got)
}

func TestTokenizedRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	results := map[int]token.Result{
		0: {
			Tokens:    []string{"carbon_monoxide", "adsorbs"},
			EntityIdx: []text.EntityIndex{{Name: "carbon_monoxide", TokenIndex: 0}},
		},
		1: {
			Sentences: [][]string{{"water", "boils", "."}, {"it", "cools", "."}},
			SentenceEntityIdx: [][]text.EntityIndex{
				{{Name: "water", TokenIndex: 0}},
				{},
			},
		},
	}
	require.NoError(t, s.SaveTokenized(results))

	got, err := s.LoadTokenized()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, results[0].Tokens, got[0].Tokens)
	assert.Equal(t, results[0].EntityIdx, got[0].EntityIdx)
	assert.Equal(t, results[1].Sentences, got[1].Sentences)
}

func TestLoadMissingFileIsReadError(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing"), nil)
	_, err := s.LoadNormalizedTexts()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeHistoryRead))
	assert.True(t, errors.IsFatal(err))
}

func TestLoadMalformedJSONIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SearchHistoryFile), []byte("{not json"), 0o644))

	s := NewStore(dir, nil)
	err := s.LoadSearchHistory(resolve.NewState())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeHistoryMalformed))
	assert.True(t, errors.IsFatal(err))
}

func TestRunIDStable(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	assert.NotEmpty(t, s.RunID())
	assert.Equal(t, s.RunID(), s.RunID())
	require.NoError(t, s.SaveRunMetadata(3))
}
