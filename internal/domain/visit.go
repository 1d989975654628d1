package domain

import "time"

const (
	// VisitSourceDirect marks a visit without referral information.
	VisitSourceDirect = "direct"
	// UnknownLocation is stored when the geo lookup yields nothing.
	UnknownLocation = "Unknown"
)

// VisitRecord is an append-only analytics row.
type VisitRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
}
