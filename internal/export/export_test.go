package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancy-analytics/internal/ingest"
	"vacancy-analytics/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sampleUnits() []models.UnitRecord {
	return []models.UnitRecord{
		{
			UnitNumber:      "101",
			UnitType:        "Studio",
			Status:          models.StatusVacant,
			RentPrice:       fptr(50000),
			DaysVacant:      iptr(200),
			ContractEndDate: "2024-01-31",
			Notes:           "needs paint",
		},
		{
			UnitNumber: "102",
			UnitType:   "2BR",
			Status:     models.StatusOccupied,
		},
	}
}

func TestCSVFullSelection(t *testing.T) {
	content, err := CSV(sampleUnits(), []Field{
		FieldUnitNumber, FieldUnitType, FieldRentPrice, FieldStatus,
		FieldContractEndDate, FieldDaysVacant, FieldNotes,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Unit Number,Unit Type,Rent Price (AED/year),Status,Contract End Date,Days Vacant,Notes", lines[0])
	assert.Equal(t, "101,Studio,50000,Vacant,2024-01-31,200,needs paint", lines[1])
	assert.Equal(t, "102,2BR,N/A,Occupied,N/A,N/A,", lines[2])
}

func TestCSVFieldSelection(t *testing.T) {
	content, err := CSV(sampleUnits(), []Field{FieldRentPrice, FieldUnitNumber})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	// Columns come out in canonical order regardless of selection order.
	assert.Equal(t, "Unit Number,Rent Price (AED/year)", lines[0])
	assert.Equal(t, "101,50000", lines[1])
	assert.Equal(t, "102,N/A", lines[2])
}

func TestCSVNoThousandsSeparators(t *testing.T) {
	units := []models.UnitRecord{{
		UnitNumber: "1",
		UnitType:   "Penthouse",
		Status:     models.StatusVacant,
		RentPrice:  fptr(1250000.5),
	}}

	content, err := CSV(units, []Field{FieldRentPrice})
	require.NoError(t, err)
	assert.Contains(t, content, "1250000.5")
	assert.NotContains(t, content, "1,250,000")
}

func TestCSVDeterministic(t *testing.T) {
	fields := DefaultFields()
	first, err := CSV(sampleUnits(), fields)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := CSV(sampleUnits(), fields)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCSVEmptyUnitList(t *testing.T) {
	content, err := CSV(nil, DefaultFields())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 1, "header only")
}

func TestParseFields(t *testing.T) {
	fields, err := ParseFields("unitNumber, rentPrice")
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldUnitNumber, FieldRentPrice}, fields)

	fields, err = ParseFields("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFields(), fields)

	_, err = ParseFields("unitNumber,bogus")
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	units := sampleUnits()
	content, err := CSV(units, []Field{
		FieldUnitNumber, FieldUnitType, FieldRentPrice, FieldStatus,
		FieldContractEndDate, FieldDaysVacant, FieldNotes,
	})
	require.NoError(t, err)

	// Re-import with the tower name column prepended, the way an admin
	// would re-upload a downloaded sheet.
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	var sheet strings.Builder
	sheet.WriteString("Tower Name," + lines[0] + "\n")
	for _, line := range lines[1:] {
		sheet.WriteString("Alpha," + line + "\n")
	}

	rows, err := ingest.ParseCSV(strings.NewReader(sheet.String()))
	require.NoError(t, err)
	result := ingest.NormalizeRows(rows)
	require.Equal(t, 0, result.Skipped)
	require.Len(t, result.Records, len(units))

	for i, rec := range result.Records {
		want := units[i]
		want.TowerSlug = "alpha"
		assert.Equal(t, want, rec.Unit)
	}
}
