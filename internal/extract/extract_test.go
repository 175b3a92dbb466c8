package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SciText-Prep/internal/token"
	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

func TestTaggerDictionaryNames(t *testing.T) {
	tagger := NewTagger()
	mentions, err := tagger.Recognize(context.Background(), "Films of graphene oxide were reduced in ethanol.")
	require.NoError(t, err)

	var surfaces []string
	for _, m := range mentions {
		surfaces = append(surfaces, m.Text)
	}
	assert.Equal(t, []string{"graphene oxide", "ethanol"}, surfaces)
}

func TestTaggerPrefersLongerDictionaryMatch(t *testing.T) {
	tagger := NewTagger()
	mentions, err := tagger.Recognize(context.Background(), "graphene oxide dispersions")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, "graphene oxide", mentions[0].Text)
	assert.Equal(t, 0, mentions[0].Start)
	assert.Equal(t, len("graphene oxide"), mentions[0].End)
}

func TestTaggerFormulasAndValence(t *testing.T) {
	tagger := NewTagger()
	mentions, err := tagger.Recognize(context.Background(), "TiO2 doped with Fe(III) ions")
	require.NoError(t, err)

	var surfaces []string
	for _, m := range mentions {
		surfaces = append(surfaces, m.Text)
	}
	assert.Equal(t, []string{"TiO2", "Fe(III)"}, surfaces)
}

func TestTaggerSkipsAmbiguousCapitalizedWords(t *testing.T) {
	tagger := NewTagger()
	mentions, err := tagger.Recognize(context.Background(), "In this work As described")
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestTaggerAddName(t *testing.T) {
	tagger := NewTagger()
	tagger.AddName("MXene")
	mentions, err := tagger.Recognize(context.Background(), "the mxene electrode")
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, "mxene", mentions[0].Text)
}

func TestAbbrevScannerFindsDefinition(t *testing.T) {
	s := NewAbbrevScanner()
	input := "Samples were studied by nuclear magnetic resonance (NMR) spectroscopy."
	defs, err := s.Definitions(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "NMR", def.Abbr)
	assert.Equal(t, []string{"nuclear", "magnetic", "resonance"}, def.FullForm)
	require.NotNil(t, def.Linked)
	assert.Equal(t, "NMR", input[def.Linked.Start:def.Linked.End])
}

func TestAbbrevScannerRejectsNonMatching(t *testing.T) {
	s := NewAbbrevScanner()
	cases := []string{
		"The results (see below) were good.",
		"Values in parentheses (3) are errors.",
		"A completely unrelated phrase (XYZQW) here.",
	}
	for _, input := range cases {
		defs, err := s.Definitions(context.Background(), input)
		require.NoError(t, err)
		assert.Empty(t, defs, input)
	}
}

func TestAbbrevScannerMultipleDefinitions(t *testing.T) {
	s := NewAbbrevScanner()
	input := "polyvinyl alcohol (PVA) and graphene oxide (GO) composites"
	defs, err := s.Definitions(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "PVA", defs[0].Abbr)
	assert.Equal(t, []string{"polyvinyl", "alcohol"}, defs[0].FullForm)
	assert.Equal(t, "GO", defs[1].Abbr)
	assert.Equal(t, []string{"graphene", "oxide"}, defs[1].FullForm)
}

func TestSegmenterTwoSentences(t *testing.T) {
	seg := NewSegmenter()
	input := "Water boils at 373 K. The pressure was constant."
	sentences, err := seg.Split(input)
	require.NoError(t, err)
	require.Len(t, sentences, 2)

	assert.Equal(t, "Water boils at 373 K.", sentences[0].Text)
	assert.Equal(t, len(sentences[0].Text), sentences[0].End)
	assert.Equal(t, input[sentences[0].End:], sentences[1].Text)
	assert.Equal(t, len(input), sentences[1].End)
}

func TestSegmenterTilesInput(t *testing.T) {
	seg := NewSegmenter()
	input := "First result. Second result! Third?"
	sentences, err := seg.Split(input)
	require.NoError(t, err)
	require.Len(t, sentences, 3)

	var rebuilt string
	prev := 0
	for _, s := range sentences {
		assert.Equal(t, input[prev:s.End], s.Text)
		rebuilt += s.Text
		prev = s.End
	}
	assert.Equal(t, input, rebuilt)
}

func TestSegmenterNonBreakingAbbreviations(t *testing.T) {
	seg := NewSegmenter()
	cases := []string{
		"Conductivity rose (e.g. at 300 K) during testing of samples",
		"Values of 1.5 T were reached in the field sweep",
		"As shown in Fig. 3 the peak shifts strongly",
	}
	for _, input := range cases {
		sentences, err := seg.Split(input)
		require.NoError(t, err)
		assert.Len(t, sentences, 1, input)
	}
}

func TestSegmenterEmptyInput(t *testing.T) {
	seg := NewSegmenter()
	sentences, err := seg.Split("")
	require.NoError(t, err)
	assert.Empty(t, sentences)
}

func TestChemWordTokenizer(t *testing.T) {
	tok := NewChemWordTokenizer()
	cases := []struct {
		in   string
		want []string
	}{
		{"Water boils.", []string{"Water", "boils", "."}},
		{"(see text)", []string{"(", "see", "text", ")"}},
		{"Fe(III) ions,", []string{"Fe(III)", "ions", ","}},
		{"the carbon_monoxide level", []string{"the", "carbon_monoxide", "level"}},
		{"1.5 T field", []string{"1.5", "T", "field"}},
		{"at 373 K.", []string{"at", "373", "K", "."}},
		{"", nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, tok.Tokenize(tc.in))
		})
	}
}

func TestMaterialsNormalizer(t *testing.T) {
	n := NewMaterialsNormalizer()
	in := []string{"The", "TiO2", "Films", "NMR", "V", "applied", "5", "−3", "carbon_monoxide", ","}
	out := n.Normalize(in, token.NormalizeOptions{})
	assert.Equal(t, []string{"the", "TiO2", "films", "NMR", "V", "applied", "5", "-3", "carbon_monoxide", ","}, out)
}

func TestMaterialsNormalizerExcludePunct(t *testing.T) {
	n := NewMaterialsNormalizer()
	out := n.Normalize([]string{"water", ",", "boils", "."}, token.NormalizeOptions{ExcludePunct: true})
	assert.Equal(t, []string{"water", "boils"}, out)
}

func TestTaggerMentionsSortedAndDisjoint(t *testing.T) {
	tagger := NewTagger()
	mentions, err := tagger.Recognize(context.Background(),
		"carbon monoxide and CO2 react over TiO2 in water")
	require.NoError(t, err)
	require.NotEmpty(t, mentions)
	prevEnd := -1
	for _, m := range mentions {
		assert.GreaterOrEqual(t, m.Start, prevEnd)
		prevEnd = m.End
		assert.True(t, m.Valid(len("carbon monoxide and CO2 react over TiO2 in water")))
	}
	var _ = []text.Mention(mentions)
}
