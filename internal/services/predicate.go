package services

import "strings"

// Predicate is a multi-term inclusion test built from a normalized query.
type Predicate struct {
	terms []string
}

// BuildPredicate splits a normalized query into whitespace-delimited terms.
func BuildPredicate(normalizedQuery string) Predicate {
	return Predicate{terms: strings.Fields(normalizedQuery)}
}

// Empty reports whether the predicate has no terms. An empty predicate
// matches everything.
func (p Predicate) Empty() bool {
	return len(p.terms) == 0
}

// Match tests the candidate's normalized searchable text. A single term
// matches as a substring of the text or as an exact category/type match;
// multiple terms must all be substrings (AND across terms).
func (p Predicate) Match(normalizedText, normalizedCategory string) bool {
	switch len(p.terms) {
	case 0:
		return true
	case 1:
		t := p.terms[0]
		return strings.Contains(normalizedText, t) || t == normalizedCategory
	default:
		for _, t := range p.terms {
			if !strings.Contains(normalizedText, t) {
				return false
			}
		}
		return true
	}
}
