package models

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// FilterAll is the filter value that matches every record
const FilterAll = "all"

// MaxReviewNotesLength bounds admin notes
const MaxReviewNotesLength = 5000

// ApplicationFilter narrows the review listing. All criteria must match.
type ApplicationFilter struct {
	Status          string `form:"status" json:"status"`
	ScholarshipType string `form:"scholarship_type" json:"scholarship_type"`
	Province        string `form:"province" json:"province"`
	Search          string `form:"search" json:"search"`
}

// Normalize fills empty criteria with FilterAll and trims the search text
func (f *ApplicationFilter) Normalize() {
	if f.Status == "" {
		f.Status = FilterAll
	}
	if f.ScholarshipType == "" {
		f.ScholarshipType = FilterAll
	}
	if f.Province == "" {
		f.Province = FilterAll
	}
	f.Search = strings.TrimSpace(f.Search)
}

// Validate rejects unknown status and scholarship values. Any province is
// accepted; one absent from the data simply matches nothing.
func (f ApplicationFilter) Validate() error {
	v := &ValidationError{}
	if f.Status != FilterAll && !ApplicationStatus(f.Status).Valid() {
		v.Add("status", "estado desconhecido")
	}
	if f.ScholarshipType != FilterAll && !ScholarshipType(f.ScholarshipType).Valid() {
		v.Add("scholarship_type", "tipo de bolsa desconhecido")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// Matches reports whether app satisfies every criterion
func (f ApplicationFilter) Matches(app *Application) bool {
	return f.matchesStatus(app) &&
		f.matchesScholarship(app) &&
		f.matchesProvince(app) &&
		f.matchesSearch(app)
}

func (f ApplicationFilter) matchesStatus(app *Application) bool {
	return isAll(f.Status) || string(app.Status) == f.Status
}

func (f ApplicationFilter) matchesScholarship(app *Application) bool {
	return isAll(f.ScholarshipType) || string(app.ScholarshipType) == f.ScholarshipType
}

func (f ApplicationFilter) matchesProvince(app *Application) bool {
	return isAll(f.Province) || app.Province == f.Province
}

func (f ApplicationFilter) matchesSearch(app *Application) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(app.FullName), q) ||
		strings.Contains(strings.ToLower(app.Email), q) ||
		strings.Contains(strings.ToLower(app.Phone), q)
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

// Apply returns the matching applications, preserving input order
func (f ApplicationFilter) Apply(apps []Application) []Application {
	out := make([]Application, 0, len(apps))
	for i := range apps {
		if f.Matches(&apps[i]) {
			out = append(out, apps[i])
		}
	}
	return out
}

// StatusCounts holds the total and per-status counts of a loaded set
type StatusCounts struct {
	Total     int `json:"total"`
	Nova      int `json:"nova"`
	EmAnalise int `json:"em_analise"`
	Aprovada  int `json:"aprovada"`
	Rejeitada int `json:"rejeitada"`
}

// CountByStatus counts apps per status. Filters never apply here.
func CountByStatus(apps []Application) StatusCounts {
	c := StatusCounts{Total: len(apps)}
	for i := range apps {
		switch apps[i].Status {
		case StatusNova:
			c.Nova++
		case StatusEmAnalise:
			c.EmAnalise++
		case StatusAprovada:
			c.Aprovada++
		case StatusRejeitada:
			c.Rejeitada++
		}
	}
	return c
}

// For returns the count for one status
func (c StatusCounts) For(s ApplicationStatus) int {
	switch s {
	case StatusNova:
		return c.Nova
	case StatusEmAnalise:
		return c.EmAnalise
	case StatusAprovada:
		return c.Aprovada
	case StatusRejeitada:
		return c.Rejeitada
	}
	return 0
}

// DistinctProvinces returns the sorted set of provinces present in apps
func DistinctProvinces(apps []Application) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range apps {
		p := apps[i].Province
		if p == "" {
			continue
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// ApplicationListing is the review dashboard payload
type ApplicationListing struct {
	Applications []Application     `json:"applications"`
	Counts       StatusCounts      `json:"counts"`
	Provinces    []string          `json:"provinces"`
	Shown        int               `json:"shown"`
	Total        int               `json:"total"`
	Filter       ApplicationFilter `json:"filter"`
}

// NewApplicationListing builds the listing for a full set ordered newest first
func NewApplicationListing(all []Application, filter ApplicationFilter) ApplicationListing {
	visible := filter.Apply(all)
	return ApplicationListing{
		Applications: visible,
		Counts:       CountByStatus(all),
		Provinces:    DistinctProvinces(all),
		Shown:        len(visible),
		Total:        len(all),
		Filter:       filter,
	}
}

// StatusUpdateRequest is the body of an inline status change
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReviewRequest is the body of a combined status and notes update
type ReviewRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes"`
}

// Validate checks the status and the notes length
func (r ReviewRequest) Validate() error {
	v := &ValidationError{}
	if !ApplicationStatus(r.Status).Valid() {
		v.Add("status", "estado desconhecido")
	}
	if r.AdminNotes != nil && utf8.RuneCountInString(*r.AdminNotes) > MaxReviewNotesLength {
		v.Add("admin_notes", "notas demasiado longas")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}
