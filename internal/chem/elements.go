// Package chem holds the fixed chemical vocabulary used across the
// preprocessing pipeline: the periodic-table symbol and name tables, the
// compound-formula and valence patterns, and the number/unit vocabulary for
// token splitting.  No I/O or state lives here, only data and pure matchers.
package chem

import (
	"regexp"
	"sort"
	"strings"
)

// Elements lists every recognised element symbol in atomic-number order.
var Elements = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K",
	"Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I",
	"Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr",
	"Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr", "Rf",
	"Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og", "Uue",
}

// ElementNames lists the full element names, parallel to Elements.
var ElementNames = []string{
	"hydrogen", "helium", "lithium", "beryllium", "boron", "carbon", "nitrogen", "oxygen", "fluorine",
	"neon", "sodium", "magnesium", "aluminium", "silicon", "phosphorus", "sulfur", "chlorine", "argon",
	"potassium", "calcium", "scandium", "titanium", "vanadium", "chromium", "manganese", "iron",
	"cobalt", "nickel", "copper", "zinc", "gallium", "germanium", "arsenic", "selenium", "bromine",
	"krypton", "rubidium", "strontium", "yttrium", "zirconium", "niobium", "molybdenum", "technetium",
	"ruthenium", "rhodium", "palladium", "silver", "cadmium", "indium", "tin", "antimony", "tellurium",
	"iodine", "xenon", "cesium", "barium", "lanthanum", "cerium", "praseodymium", "neodymium",
	"promethium", "samarium", "europium", "gadolinium", "terbium", "dysprosium", "holmium", "erbium",
	"thulium", "ytterbium", "lutetium", "hafnium", "tantalum", "tungsten", "rhenium", "osmium",
	"iridium", "platinum", "gold", "mercury", "thallium", "lead", "bismuth", "polonium", "astatine",
	"radon", "francium", "radium", "actinium", "thorium", "protactinium", "uranium", "neptunium",
	"plutonium", "americium", "curium", "berkelium", "californium", "einsteinium", "fermium",
	"mendelevium", "nobelium", "lawrencium", "rutherfordium", "dubnium", "seaborgium", "bohrium",
	"hassium", "meitnerium", "darmstadtium", "roentgenium", "copernicium", "nihonium", "flerovium",
	"moscovium", "livermorium", "tennessine", "oganesson", "ununennium",
}

// elementNameBySymbol maps "Fe" → "iron".
var elementNameBySymbol = func() map[string]string {
	m := make(map[string]string, len(Elements))
	for i, sym := range Elements {
		m[sym] = ElementNames[i]
	}
	return m
}()

// ElementName returns the full name for an element symbol.
func ElementName(symbol string) (string, bool) {
	name, ok := elementNameBySymbol[symbol]
	return name, ok
}

// elementAlternation joins all symbols into a regexp alternation, longest
// symbols first so that two-letter symbols win over their one-letter prefixes.
func elementAlternation() string {
	syms := make([]string, len(Elements))
	copy(syms, Elements)
	sort.SliceStable(syms, func(i, j int) bool { return len(syms[i]) > len(syms[j]) })
	return strings.Join(syms, "|")
}

var (
	// formulaRe matches strings composed entirely of element symbols and
	// digits, e.g. "CO2", "LiFePO4".  Matches are case-preserving mentions.
	formulaRe = regexp.MustCompile(`^(?:` + elementAlternation() + `|[0-9])+$`)

	// valenceRe matches "element symbol + Roman-numeral valence in
	// parentheses", e.g. "Fe(III)", "Cu(ii)".  Group 1 is the symbol,
	// group 2 the parenthesised valence.
	valenceRe = regexp.MustCompile(`^(` + elementAlternation() + `)(\((?:IV|VI{0,2}|I{1,3}|iv|vi{0,2}|i{1,3})\))$`)
)

// IsFormula reports whether the mention is an unambiguous compound formula
// (a sequence of recognised element symbols and digits).  Formula mentions
// keep their original casing through resolution and caching.
func IsFormula(mention string) bool {
	return formulaRe.MatchString(mention)
}

// ExpandValence rewrites an "element + Roman-numeral valence" mention by
// substituting the symbol with the full element name: "Fe(III)" → "iron(III)".
// The second return is false when the mention does not match the pattern.
func ExpandValence(mention string) (string, bool) {
	m := valenceRe.FindStringSubmatch(mention)
	if m == nil {
		return mention, false
	}
	name, ok := ElementName(m[1])
	if !ok {
		return mention, false
	}
	return name + m[2], true
}
