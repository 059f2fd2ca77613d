package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancy-analytics/internal/models"
)

func TestParseCSVImportHeaders(t *testing.T) {
	input := strings.Join([]string{
		"Tower Name,Unit No.,Status,Last Contract End Date,Days Vacant,Last Known Rent,Sale Date (if any)",
		"Marina Heights,1204,Vacant,2024-06-30,120,85000,",
		"Marina Heights,1205,Occupied,,,90000,2023-01-15",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Marina Heights", rows[0].TowerName)
	assert.Equal(t, "1204", rows[0].UnitNumber)
	assert.Equal(t, "Vacant", rows[0].Status)
	assert.Equal(t, "2024-06-30", rows[0].ContractEndDate)
	assert.Equal(t, "120", rows[0].DaysVacant)
	assert.Equal(t, "85000", rows[0].RentPrice)

	// The sale-date column is extra: ignored, not rejected.
	assert.Equal(t, "90000", rows[1].RentPrice)
}

func TestParseCSVExportHeaders(t *testing.T) {
	// Headers our own exporter writes map back to the same fields.
	input := strings.Join([]string{
		"Tower Name,Unit Number,Unit Type,Rent Price (AED/year),Status,Contract End Date,Days Vacant",
		"Alpha,101,Studio,50000,Vacant,N/A,200",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "101", rows[0].UnitNumber)
	assert.Equal(t, "Studio", rows[0].UnitType)
	assert.Equal(t, "50000", rows[0].RentPrice)
	assert.Equal(t, "200", rows[0].DaysVacant)
}

func TestParseCSVEmptyAndHeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ParseCSV(strings.NewReader("Tower Name,Unit No.,Status\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCSVSkipsBlankLines(t *testing.T) {
	input := "Tower Name,Unit No.,Status\nAlpha,101,Vacant\n,,\nAlpha,102,Occupied\n"
	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStoredRowRoundTrip(t *testing.T) {
	rent := 123456.78
	days := 90
	stored := models.VacantUnitRow{
		TowerName:           "Marina Heights",
		TowerSlug:           "marina-heights",
		Area:                "Dubai Marina",
		UnitNo:              "1204",
		UnitType:            "2BR",
		Status:              "Vacant",
		LastContractEndDate: "2024-06-30",
		DaysVacant:          &days,
		LastKnownRent:       &rent,
		Notes:               "corner unit",
	}

	rec, ok := NormalizeRow(RowFromStored(stored))
	require.True(t, ok)

	back := StoredFromRecord(rec)
	back.ID = stored.ID
	back.CreatedAt = stored.CreatedAt
	assert.Equal(t, stored, back)
}
