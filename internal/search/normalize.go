package search

import "strings"

// Replacement rewrites one literal term in a search string.
type Replacement struct {
	Term        string `mapstructure:"term" json:"term" yaml:"term"`
	Replacement string `mapstructure:"replacement" json:"replacement" yaml:"replacement"`
}

// DefaultReplacements is the alias table applied to site searches when no
// table is configured. Order matters: later entries see earlier rewrites.
func DefaultReplacements() []Replacement {
	return []Replacement{
		{Term: "webinars", Replacement: "online seminars"},
		{Term: "seminars", Replacement: "seminar"},
		{Term: "e-learning", Replacement: "elearning"},
		{Term: "covid-19", Replacement: "covid"},
		{Term: "&", Replacement: "and"},
	}
}

// Normalizer applies an ordered substitution table to search terms.
type Normalizer struct {
	table []Replacement
}

// NewNormalizer copies table; an empty table makes Normalize a no-op.
func NewNormalizer(table []Replacement) *Normalizer {
	t := make([]Replacement, 0, len(table))
	for _, r := range table {
		if r.Term == "" {
			continue
		}
		t = append(t, r)
	}
	return &Normalizer{table: t}
}

// Normalize replaces the first occurrence of each term in table order.
// Each step operates on the previous step's output.
func (n *Normalizer) Normalize(terms string) string {
	if n == nil || terms == "" {
		return terms
	}
	out := terms
	for _, r := range n.table {
		out = strings.Replace(out, r.Term, r.Replacement, 1)
	}
	return out
}

// Table returns a copy of the substitution table.
func (n *Normalizer) Table() []Replacement {
	if n == nil {
		return nil
	}
	return append([]Replacement(nil), n.table...)
}
