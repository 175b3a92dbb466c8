// Package text defines the data types exchanged between the preprocessing
// pipeline and its collaborators: entity mentions, normalized entity
// records, abbreviation definitions, sentences, and token/entity index
// structures.  Plain data only; behaviour lives in internal packages.
package text

// Mention is a single occurrence of an entity surface form at a half-open
// [Start, End) byte span within a specific version of a text.
type Mention struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Valid reports whether the mention span is well-formed for a text of the
// given length: 0 <= Start < End <= textLen.
func (m Mention) Valid(textLen int) bool {
	return m.Start >= 0 && m.Start < m.End && m.End <= textLen
}

// Entity is a normalized entity occurrence in a rewritten text: the
// canonical name now present at [Start, End), plus the original surface
// form it replaced.
type Entity struct {
	Name    string `json:"name"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Surface string `json:"surface"`
}

// Abbreviation is a definition triple from the abbreviation extractor: the
// abbreviated surface, the full-form tokens, and the entity mention the
// abbreviation was linked to, when any.
type Abbreviation struct {
	Abbr     string   `json:"abbr"`
	FullForm []string `json:"full_form"`
	Linked   *Mention `json:"linked,omitempty"`
}

// Sentence is one sentence from the sentence boundary detector.  End is the
// offset one past the sentence's last byte in the source text; the sentence
// begins at the previous sentence's End (0 for the first).
type Sentence struct {
	Text string `json:"text"`
	End  int    `json:"end"`
}

// EntityIndex ties an entity's canonical name to the position of its token
// in a final token sequence.
type EntityIndex struct {
	Name       string `json:"name"`
	TokenIndex int    `json:"token_index"`
}
