package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTwoLineAbstractKeepsBody(t *testing.T) {
	c := NewCleaner(nil)
	out := c.Clean("Abstract\nGraphene films were grown by CVD.")
	assert.Equal(t, "Graphene films were grown by CVD.", out)
}

func TestCleanSingleLineHeadingWord(t *testing.T) {
	c := NewCleaner(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"Abstract Graphene films were grown.", "Graphene films were grown."},
		{"Summary The results are shown.", "The results are shown."},
		{"Objectives: We measured conductivity.", "We measured conductivity."},
		{"Graphene films were grown.", "Graphene films were grown."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Clean(tc.in), tc.in)
	}
}

func TestCleanMisspelledHeadings(t *testing.T) {
	c := NewCleaner(nil)
	for _, heading := range []string{"Absract", "Abstact", "Abstractt", "Publisher Summary", "1. Summary"} {
		out := c.Clean(heading + "\nBody line one.\nBody line two.\nBody line three.")
		assert.Equal(t, "Body line one. Body line two. Body line three.", out, heading)
	}
}

func TestCleanSectionTitlesStripped(t *testing.T) {
	c := NewCleaner(nil)
	in := "Abstract\nIntroduction\nGraphene is useful.\nMethods\nWe grew films.\nConclusions\nIt worked."
	assert.Equal(t, "Graphene is useful. We grew films. It worked.", c.Clean(in))
}

func TestCleanRetractionNotice(t *testing.T) {
	c := NewCleaner(nil)
	in := retractionNotice + "\nExtra line one.\nExtra line two."
	assert.Equal(t, "Retracted", c.Clean(in))
}

func TestCleanCopyrightTail(t *testing.T) {
	c := NewCleaner(nil)
	out := c.Clean("Good science happened here. © 2019 Elsevier Ltd.")
	assert.Equal(t, "Good science happened here.", out)
}

func TestCleanLeadingCopyright(t *testing.T) {
	c := NewCleaner(nil)
	out := c.Clean("© 2019 Elsevier B.V. Good science happened here.")
	assert.Equal(t, "Good science happened here.", out)

	out = c.Clean("© 2019 Good science happened here.")
	assert.Equal(t, "Good science happened here.", out)
}

func TestCleanRemovesTrademarkAndTags(t *testing.T) {
	c := NewCleaner(nil)
	out := c.Clean("Nafion® membranes show <sup>high</sup> conductivity.")
	assert.Equal(t, "Nafion membranes show  high  conductivity.", out)
}

func TestCleanCorpusDropsShort(t *testing.T) {
	c := NewCleaner(nil)
	texts := []string{
		"A sufficiently long abstract about graphene.",
		"shrt",
		"",
		"Another valid abstract about perovskite cells.",
	}
	cleaned, dropped := c.CleanCorpus(texts)
	require.Len(t, cleaned, 2)
	assert.Equal(t, []int{1, 2}, dropped)
}
