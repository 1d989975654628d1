// Package moderation holds the pure record views used by the admin console.
package moderation

import (
	"strings"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// Filter narrows the moderation list. Deleted records never pass.
type Filter struct {
	Search string
	Status domain.SignatureStatus
}

// Matches reports whether rec is visible under f.
func (f Filter) Matches(rec *domain.SignatureRecord) bool {
	if rec.Status == domain.StatusDeleted {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Data.DisplayName()), term) ||
		strings.Contains(strings.ToLower(rec.Data.ContactEmail()), term)
}

// Split is the filtered list divided by signer type, order preserved.
type Split struct {
	Drivers   []domain.SignatureRecord `json:"drivers"`
	Companies []domain.SignatureRecord `json:"companies"`
}

// Apply filters records and splits them by type.
func Apply(records []domain.SignatureRecord, f Filter) Split {
	out := Split{
		Drivers:   []domain.SignatureRecord{},
		Companies: []domain.SignatureRecord{},
	}
	for i := range records {
		rec := &records[i]
		if !f.Matches(rec) {
			continue
		}
		switch rec.Data.(type) {
		case *domain.DriverForm:
			out.Drivers = append(out.Drivers, *rec)
		case *domain.CompanyForm:
			out.Companies = append(out.Companies, *rec)
		}
	}
	return out
}

// Stats are the dashboard aggregates.
type Stats struct {
	Total     int `json:"total"`
	Freight   int `json:"freight"`
	Passenger int `json:"passenger"`
	Visits    int `json:"visits"`
}

// Compute counts non-deleted records; a driver in both sectors counts twice.
func Compute(records []domain.SignatureRecord, visits int) Stats {
	s := Stats{Visits: visits}
	for i := range records {
		rec := &records[i]
		if rec.Status == domain.StatusDeleted {
			continue
		}
		s.Total++
		driver, ok := rec.Driver()
		if !ok {
			continue
		}
		switch driver.Sector {
		case domain.SectorFreight:
			s.Freight++
		case domain.SectorPassenger:
			s.Passenger++
		case domain.SectorBoth:
			s.Freight++
			s.Passenger++
		}
	}
	return s
}
