package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementTables(t *testing.T) {
	require.Equal(t, len(Elements), len(ElementNames))

	name, ok := ElementName("Fe")
	require.True(t, ok)
	assert.Equal(t, "iron", name)

	name, ok = ElementName("Uue")
	require.True(t, ok)
	assert.Equal(t, "ununennium", name)

	_, ok = ElementName("Xx")
	assert.False(t, ok)
}

func TestIsFormula(t *testing.T) {
	formulas := []string{"CO", "CO2", "H2O", "TiO2", "LiFePO4", "NaCl", "Fe2O3"}
	for _, f := range formulas {
		assert.True(t, IsFormula(f), f)
	}

	notFormulas := []string{"", "water", "graphene", "nmr", "e.g", "X2"}
	for _, f := range notFormulas {
		assert.False(t, IsFormula(f), f)
	}
}

func TestFormulaPrefersTwoLetterSymbols(t *testing.T) {
	// "Co" must parse as cobalt, not C+o (o is not an element).
	assert.True(t, IsFormula("Co"))
	assert.True(t, IsFormula("CoO"))
}

func TestExpandValence(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Fe(III)", "iron(III)", true},
		{"Fe(iii)", "iron(iii)", true},
		{"Cu(II)", "copper(II)", true},
		{"Mn(IV)", "manganese(IV)", true},
		{"Ce(VI)", "cerium(VI)", true},
		{"Fe(VIII)", "Fe(VIII)", false},
		{"iron(III)", "iron(III)", false},
		{"Fe", "Fe", false},
		{"Fe(3)", "Fe(3)", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ExpandValence(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitNumberUnit(t *testing.T) {
	cases := []struct {
		in     string
		number string
		unit   string
		wantOK bool
	}{
		{"5V", "5", "V", true},
		{"373K", "373", "K", true},
		{"1.5T", "1.5", "T", true},
		{"-20ºC", "-20", "ºC", true},
		{"100MHz", "100", "MHz", true},
		{"0.5mol", "0.5", "mol", true},
		{"5", "", "", false},
		{"V", "", "", false},
		{"5X", "", "", false},
		{"H2O", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			number, unit, ok := SplitNumberUnit(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.number, number)
			assert.Equal(t, tc.unit, unit)
		})
	}
}

func TestIsNumber(t *testing.T) {
	for _, s := range []string{"5", "1.5", "-3", "+0.25", "0.21(3)"} {
		assert.True(t, IsNumber(s), s)
	}
	for _, s := range []string{"", "V", "5V", "1.5.2", "five"} {
		assert.False(t, IsNumber(s), s)
	}
}

func TestIsPunctuation(t *testing.T) {
	assert.True(t, IsPunctuation(","))
	assert.True(t, IsPunctuation("≥"))
	assert.False(t, IsPunctuation("a"))
	assert.False(t, IsPunctuation(".."))
}
