// Package models contains shared data models used across the codebase.
package models

// PersonalityProfile is the scored output of a completed IPIP-NEO-120
// questionnaire: five domains, six facets each. It is produced by the scoring
// engine and consumed opaquely here; the analysis pipeline only formats it
// into prompts and persists it as JSON.
type PersonalityProfile struct {
	Domains []DomainScore `json:"domains"`
}

// DomainScore is the score for one of the five domains.
// Raw ranges 24-120 (sum of six facets, four questions per facet).
type DomainScore struct {
	Name   string       `json:"name"`
	Raw    int          `json:"raw"`
	Facets []FacetScore `json:"facets"`
}

// Percentage maps the raw domain score onto 0-100.
func (d DomainScore) Percentage() float64 {
	return (float64(d.Raw) - 24.0) / 96.0 * 100.0
}

// FacetScore is the score for a single facet. Raw ranges 4-20.
type FacetScore struct {
	Name string `json:"name"`
	Raw  int    `json:"raw"`
}

// Percentage maps the raw facet score onto 0-100.
func (f FacetScore) Percentage() float64 {
	return (float64(f.Raw) - 4.0) / 16.0 * 100.0
}
