package model

import (
	"strings"
	"time"
)

// JobPosting is one opportunity record returned by the Raven jobs endpoint.
// Postings are created server-side and read-only on the client.
type JobPosting struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Company               string    `json:"company"`
	Location              string    `json:"location"`
	Type                  string    `json:"type"` // free-text category, e.g. "Full-time"
	Description           string    `json:"description"`
	Requirements          string    `json:"requirements"`
	SalaryRange           string    `json:"salary_range,omitempty"`
	PostedDate            time.Time `json:"posted_date"`
	IsActive              bool      `json:"is_active"`
	ProponentOrganization string    `json:"proponent_organization,omitempty"`
}

// MatchesSearch reports whether term occurs in the title, company, or
// location. term must already be lowercased; matching is plain substring.
func (p JobPosting) MatchesSearch(term string) bool {
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Company), term) ||
		strings.Contains(strings.ToLower(p.Location), term)
}
