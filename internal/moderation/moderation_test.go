package moderation

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

var when = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

func fixtures() []domain.SignatureRecord {
	return []domain.SignatureRecord{
		{ID: "d1", Type: domain.SignerTypeDriver, Status: domain.StatusNew, SubmittedAt: when,
			Data: &domain.DriverForm{FullName: "Jane Doe", Email: "jane@example.com", City: "Berlin",
				Sector: domain.SectorBoth, LicenseClass: []string{"B", "CE"}, PhoneNumber: "+49 1"}},
		{ID: "d2", Type: domain.SignerTypeDriver, Status: domain.StatusVerified, SubmittedAt: when,
			Data: &domain.DriverForm{FullName: "Ali Kaya", Email: "ali@example.org", City: "Köln",
				Sector: domain.SectorPassenger, LicenseClass: []string{"D"}}},
		{ID: "d3", Type: domain.SignerTypeDriver, Status: domain.StatusDeleted, SubmittedAt: when,
			Data: &domain.DriverForm{FullName: "Gone", Email: "gone@example.com", Sector: domain.SectorFreight}},
		{ID: "c1", Type: domain.SignerTypeCompany, Status: domain.StatusNew, SubmittedAt: when,
			Data: &domain.CompanyForm{CompanyName: "Muster, Logistik GmbH", Email: "info@muster.de", City: "Hamburg", PhoneNumber: "040"}},
	}
}

func TestApplyFilters(t *testing.T) {
	records := fixtures()

	all := Apply(records, Filter{})
	assert.Len(t, all.Drivers, 2)
	assert.Len(t, all.Companies, 1)

	byName := Apply(records, Filter{Search: "JANE"})
	require.Len(t, byName.Drivers, 1)
	assert.Equal(t, "d1", byName.Drivers[0].ID)

	byEmail := Apply(records, Filter{Search: "muster.de"})
	assert.Empty(t, byEmail.Drivers)
	assert.Len(t, byEmail.Companies, 1)

	byStatus := Apply(records, Filter{Status: domain.StatusVerified})
	require.Len(t, byStatus.Drivers, 1)
	assert.Equal(t, "d2", byStatus.Drivers[0].ID)

	deleted := Apply(records, Filter{Status: domain.StatusDeleted, Search: "gone"})
	assert.Empty(t, deleted.Drivers)
}

func TestCompute(t *testing.T) {
	s := Compute(fixtures(), 42)
	assert.Equal(t, Stats{Total: 3, Freight: 1, Passenger: 2, Visits: 42}, s)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, fixtures())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"d1", "driver", "new", "2024-03-05T09:30:00.000Z", "Jane Doe", "Berlin", "both", "B, CE", "jane@example.com", "+49 1"}, rows[1])
	assert.Equal(t, []string{"c1", "company", "new", "2024-03-05T09:30:00.000Z", "Muster, Logistik GmbH", "Hamburg", "-", "-", "info@muster.de", "040"}, rows[3])
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteCSV(&buf, fixtures()[3:])
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Muster, Logistik GmbH"`)
}
