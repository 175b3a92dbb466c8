package chem

import "regexp"

// SplitUnits is the recognised unit-suffix vocabulary for number/unit token
// splitting, e.g. "5V" → "5", "V".  The list follows common usage in
// materials-science abstracts and is matched exactly (case-sensitive).
var SplitUnits = []string{
	"K", "h", "V", "wt", "wt.", "MHz", "kHz", "GHz", "Hz", "days", "weeks",
	"hours", "minutes", "seconds", "T", "MPa", "GPa", "at.", "mol.",
	"at", "m", "N", "s-1", "vol.", "vol", "eV", "A", "atm", "bar",
	"kOe", "Oe", "h.", "mWcm−2", "keV", "MeV", "meV", "day", "week", "hour",
	"minute", "month", "months", "year", "cycles", "years", "fs", "ns",
	"ps", "rpm", "g", "mg", "mAcm−2", "mA", "mK", "mT", "dB",
	"Ag-1", "mAg-1", "mAg−1", "mAg", "mAh", "mAhg−1", "m-2", "mJ", "kJ",
	"m2g−1", "THz", "KHz", "kJmol−1", "Torr", "gL-1", "Vcm−1", "mVs−1",
	"J", "GJ", "mTorr", "kbar", "cm2", "mbar", "mmol", "mol", "molL−1",
	"MΩ", "Ω", "kΩ", "mΩ", "mgL−1", "moldm−3", "m2", "m3", "cm-1", "cm",
	"Scm−1", "Acm−1", "eV−1cm−2", "cm-2", "sccm", "cm−2eV−1", "cm−3eV−1",
	"kA", "s−1", "emu", "L", "cmHz1", "gmol−1", "kVcm−1", "MPam1",
	"cm2V−1s−1", "Acm−2", "cm−2s−1", "MV", "ionscm−2", "Jcm−2", "ncm−2",
	"Wcm−2", "GWcm−2", "Acm−2K−2", "gcm−3", "cm3g−1", "mgl−1",
	"mgml−1", "mgcm−2", "mΩcm", "cm−2", "ions", "moll−1",
	"nmol", "psi", "mol·L−1", "Jkg−1K−1", "km", "Wm−2", "mass", "mmHg",
	"mmmin−1", "GeV", "m−2", "m−2s−1", "Kmin−1", "gL−1", "ng", "hr", "w",
	"mN", "kN", "Mrad", "rad", "arcsec", "Ag−1", "dpa", "cdm−2",
	"cd", "mcd", "mHz", "m−3", "ppm", "phr", "mL", "ML", "mlmin−1", "MWm−2",
	"Wm−1K−1", "kWh", "Wkg−1", "Jm−3", "m-3", "gl−1", "A−1",
	"Ks−1", "mgdm−3", "mms−1", "ks", "appm", "ºC", "HV", "kDa", "Da", "kG",
	"kGy", "MGy", "Gy", "mGy", "Gbps", "μB", "μL", "μF", "nF", "pF", "mF",
	"Å", "A˚", "μgL−1",
}

var splitUnitSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SplitUnits))
	for _, u := range SplitUnits {
		m[u] = struct{}{}
	}
	return m
}()

// IsSplitUnit reports whether s is in the unit-suffix vocabulary.
func IsSplitUnit(s string) bool {
	_, ok := splitUnitSet[s]
	return ok
}

var (
	// numberRe matches a bare number, optionally signed, with optional
	// parenthesised uncertainty digits: "1.5", "-3", "0.21(3)".
	numberRe = regexp.MustCompile(`^[+-]?\d*\.?\d+(?:\(\d*\))?$`)

	// numberUnitRe splits a leading number from a trailing unit-like suffix.
	numberUnitRe = regexp.MustCompile(`^([+-]?\d*\.?\d+(?:\(\d*\))?)([\p{Latin}Ωμº°Å˚·\-−0-9.]+)$`)
)

// IsNumber reports whether the token is a bare numeric value.
func IsNumber(token string) bool {
	return numberRe.MatchString(token)
}

// SplitNumberUnit splits tokens of the form <number><unit-suffix> where the
// suffix is in the recognised unit vocabulary: "5V" → ("5", "V", true).
// Tokens that do not match return ok=false.
func SplitNumberUnit(token string) (number, unit string, ok bool) {
	m := numberUnitRe.FindStringSubmatch(token)
	if m == nil || !IsSplitUnit(m[2]) {
		return "", "", false
	}
	return m[1], m[2], true
}

// Punctuation is the token-level punctuation set recognised by the materials
// normalizer, including typographic quotes and comparison symbols.
var Punctuation = []string{
	"!", "\"", "#", "$", "%", "&", "'", "(", ")", "*", "+", ",", "-", ".", "/",
	":", ";", "<", "=", ">", "?", "@", "[", "\\", "]", "^", "_", "`", "{", "|", "}", "~",
	"“", "”", "≥", "≤", "×",
}

var punctSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Punctuation))
	for _, p := range Punctuation {
		m[p] = struct{}{}
	}
	return m
}()

// IsPunctuation reports whether the token is a single punctuation mark.
func IsPunctuation(token string) bool {
	_, ok := punctSet[token]
	return ok
}
