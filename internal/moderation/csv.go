package moderation

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// CSVHeader is the fixed export header.
var CSVHeader = []string{"ID", "Type", "Status", "Date", "Name/Company", "City", "Sector", "Licenses", "Email", "Phone"}

const csvDateLayout = "2006-01-02T15:04:05.000Z07:00"

// WriteCSV writes every non-deleted record, ignoring any display filter.
// It returns the number of data rows written.
func WriteCSV(w io.Writer, records []domain.SignatureRecord) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	rows := 0
	for i := range records {
		rec := &records[i]
		if rec.Status == domain.StatusDeleted {
			continue
		}
		if err := cw.Write(csvRow(rec)); err != nil {
			return rows, err
		}
		rows++
	}
	cw.Flush()
	return rows, cw.Error()
}

func csvRow(rec *domain.SignatureRecord) []string {
	sector, licenses := "-", "-"
	if d, ok := rec.Driver(); ok {
		sector = string(d.Sector)
		licenses = strings.Join(d.LicenseClass, ", ")
	}
	return []string{
		rec.ID,
		string(rec.Type),
		string(rec.Status),
		rec.SubmittedAt.UTC().Format(csvDateLayout),
		rec.Data.DisplayName(),
		rec.City(),
		sector,
		licenses,
		rec.Data.ContactEmail(),
		rec.PhoneNumber(),
	}
}
