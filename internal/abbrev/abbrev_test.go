package abbrev

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SciText-Prep/pkg/types/text"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Definitions(ctx context.Context, input string) ([]text.Abbreviation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]text.Abbreviation), args.Error(1)
}

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, input string) ([]text.Mention, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]text.Mention), args.Error(1)
}

func mentionAt(s, sub string, from int) text.Mention {
	start := from
	for ; start+len(sub) <= len(s); start++ {
		if s[start:start+len(sub)] == sub {
			return text.Mention{Text: sub, Start: start, End: start + len(sub)}
		}
	}
	panic("substring not found: " + sub)
}

func TestProcessNoDefinitions(t *testing.T) {
	ex := &MockExtractor{}
	rec := &MockRecognizer{}
	input := "Plain text without any abbreviations."
	ex.On("Definitions", mock.Anything, input).Return([]text.Abbreviation(nil), nil)

	e := NewEliminator(ex, rec, nil)
	out, err := e.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestProcessRemovesDefinitionAndExpands(t *testing.T) {
	input := "Samples were analyzed by nuclear magnetic resonance (NMR) spectroscopy. NMR confirmed the structure."

	nmrInParens := mentionAt(input, "NMR", 50)
	laterNMR := mentionAt(input, "NMR", nmrInParens.End+2)

	ex := &MockExtractor{}
	ex.On("Definitions", mock.Anything, input).Return([]text.Abbreviation{
		{
			Abbr:     "NMR",
			FullForm: []string{"nuclear", "magnetic", "resonance"},
			Linked:   &nmrInParens,
		},
	}, nil)

	rec := &MockRecognizer{}
	rec.On("Recognize", mock.Anything, input).Return([]text.Mention{nmrInParens, laterNMR}, nil)

	e := NewEliminator(ex, rec, nil)
	out, err := e.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t,
		"Samples were analyzed by nuclear magnetic resonance spectroscopy. nuclear magnetic resonance confirmed the structure.",
		out)
}

func TestProcessFallsBackToLinkedMention(t *testing.T) {
	// The recognizer tags the long form but never the bare abbreviation;
	// the definition's linked parenthetical still anchors the rewrite.
	input := "nuclear magnetic resonance (NMR) was used. NMR spectra follow."

	nmrInParens := mentionAt(input, "NMR", 27)
	ex := &MockExtractor{}
	ex.On("Definitions", mock.Anything, input).Return([]text.Abbreviation{
		{
			Abbr:     "NMR",
			FullForm: []string{"nuclear", "magnetic", "resonance"},
			Linked:   &nmrInParens,
		},
	}, nil)

	rec := &MockRecognizer{}
	rec.On("Recognize", mock.Anything, input).Return([]text.Mention{
		{Text: "nuclear magnetic resonance", Start: 0, End: 26},
	}, nil)
	rec.On("Recognize", mock.Anything, "nuclear magnetic resonance ").Return([]text.Mention{
		{Text: "nuclear magnetic resonance", Start: 0, End: 26},
	}, nil)

	e := NewEliminator(ex, rec, nil)
	out, err := e.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t,
		"nuclear magnetic resonance was used. nuclear magnetic resonance spectra follow.",
		out)
}

func TestProcessKeepsNonParentheticalDefining(t *testing.T) {
	// The defining occurrence is not parenthetical; it stays while later
	// occurrences expand.
	input := "PVA films were cast. The PVA layer was dried."

	first := mentionAt(input, "PVA", 0)
	second := mentionAt(input, "PVA", first.End)

	ex := &MockExtractor{}
	ex.On("Definitions", mock.Anything, input).Return([]text.Abbreviation{
		{
			Abbr:     "PVA",
			FullForm: []string{"polyvinyl", "alcohol"},
			Linked:   &first,
		},
	}, nil)

	rec := &MockRecognizer{}
	rec.On("Recognize", mock.Anything, input).Return([]text.Mention{first, second}, nil)

	e := NewEliminator(ex, rec, nil)
	out, err := e.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "PVA films were cast. The polyvinyl alcohol layer was dried.", out)
}

func TestProcessUnlinkedDefinitionSkipped(t *testing.T) {
	input := "We used SEM (scanning) imaging. SEM shows pores."

	ex := &MockExtractor{}
	ex.On("Definitions", mock.Anything, input).Return([]text.Abbreviation{
		{Abbr: "SEM", FullForm: []string{"scanning", "electron", "microscopy"}},
	}, nil)

	rec := &MockRecognizer{}
	rec.On("Recognize", mock.Anything, mock.Anything).Return([]text.Mention(nil), nil)

	e := NewEliminator(ex, rec, nil)
	out, err := e.Process(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestWholeWordMatching(t *testing.T) {
	re := wholeWord("CO")
	locs := re.FindAllStringSubmatchIndex("CO and COOH and CO.", -1)
	var got []string
	s := "CO and COOH and CO."
	for _, loc := range locs {
		got = append(got, s[loc[2]:loc[3]])
	}
	assert.Equal(t, []string{"CO", "CO"}, got)
}
