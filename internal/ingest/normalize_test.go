package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancy-analytics/internal/models"
)

func TestNormalizeRowBasic(t *testing.T) {
	rec, ok := NormalizeRow(Row{
		TowerName:       "Marina Heights",
		Area:            "Dubai Marina",
		UnitNumber:      "1204",
		UnitType:        "2BR",
		Status:          "Vacant",
		DaysVacant:      "42",
		RentPrice:       "85000",
		ContractEndDate: "2025-11-30",
	})

	require.True(t, ok)
	assert.Equal(t, "Marina Heights", rec.TowerName)
	assert.Equal(t, "marina-heights", rec.TowerSlug)
	assert.Equal(t, "Dubai Marina", rec.TowerArea)
	assert.Equal(t, "marina-heights", rec.Unit.TowerSlug)
	assert.Equal(t, models.StatusVacant, rec.Unit.Status)
	require.NotNil(t, rec.Unit.RentPrice)
	assert.Equal(t, 85000.0, *rec.Unit.RentPrice)
	require.NotNil(t, rec.Unit.DaysVacant)
	assert.Equal(t, 42, *rec.Unit.DaysVacant)
	assert.Equal(t, "2025-11-30", rec.Unit.ContractEndDate)
}

func TestNormalizeRowMissingTowerNameIsSkipped(t *testing.T) {
	_, ok := NormalizeRow(Row{UnitNumber: "101", Status: "Vacant"})
	assert.False(t, ok)

	_, ok = NormalizeRow(Row{TowerName: "   ", UnitNumber: "101"})
	assert.False(t, ok)
}

func TestNormalizeRowsSkipsAndContinues(t *testing.T) {
	result := NormalizeRows([]Row{
		{TowerName: "Alpha", UnitNumber: "101", Status: "Vacant"},
		{UnitNumber: "999", Status: "Vacant"}, // no tower name
		{TowerName: "Beta", UnitNumber: "201", Status: "Occupied"},
	})

	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "alpha", result.Records[0].TowerSlug)
	assert.Equal(t, "beta", result.Records[1].TowerSlug)
}

func TestPermissiveNumericParsing(t *testing.T) {
	tests := []struct {
		name string
		rent string
		days string
	}{
		{"garbage", "abc", "xyz"},
		{"empty", "", ""},
		{"placeholder", "N/A", "N/A"},
		{"zero rent", "0", "-1"},
		{"negative rent", "-500", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := NormalizeRow(Row{
				TowerName:  "Alpha",
				UnitNumber: "101",
				Status:     "Vacant",
				RentPrice:  tt.rent,
				DaysVacant: tt.days,
			})
			// Unknown, never zero, never a batch abort.
			require.True(t, ok)
			assert.Nil(t, rec.Unit.RentPrice)
			assert.Nil(t, rec.Unit.DaysVacant)
		})
	}
}

func TestNumericParsingAcceptsSeparatorsAndFractions(t *testing.T) {
	rec, ok := NormalizeRow(Row{
		TowerName:  "Alpha",
		UnitNumber: "101",
		Status:     "Vacant",
		RentPrice:  "1,250,000.50",
		DaysVacant: "12.9",
	})

	require.True(t, ok)
	require.NotNil(t, rec.Unit.RentPrice)
	assert.Equal(t, 1250000.50, *rec.Unit.RentPrice)
	require.NotNil(t, rec.Unit.DaysVacant)
	assert.Equal(t, 12, *rec.Unit.DaysVacant)
}

func TestUnrecognizedStatusKeptVerbatim(t *testing.T) {
	rec, ok := NormalizeRow(Row{
		TowerName:  "Alpha",
		UnitNumber: "101",
		Status:     "Under Renovation",
	})

	require.True(t, ok)
	assert.Equal(t, models.UnitStatus("Under Renovation"), rec.Unit.Status)
	assert.False(t, rec.Unit.IsVacant())
	assert.False(t, rec.Unit.IsOccupied())
}

func TestStatusMatchingIsCaseSensitive(t *testing.T) {
	rec, _ := NormalizeRow(Row{TowerName: "Alpha", UnitNumber: "101", Status: "vacant"})
	assert.False(t, rec.Unit.IsVacant(), "lowercase status must not map to the Vacant state")

	rec, _ = NormalizeRow(Row{TowerName: "Alpha", UnitNumber: "101", Status: "Becoming Vacant in 30 Days"})
	assert.True(t, rec.Unit.IsVacant())
}

func TestDefaultUnitType(t *testing.T) {
	rec, _ := NormalizeRow(Row{TowerName: "Alpha", UnitNumber: "101", Status: "Vacant"})
	assert.Equal(t, models.DefaultUnitType, rec.Unit.UnitType)
}

func TestPlaceholderContractDateBecomesAbsent(t *testing.T) {
	rec, _ := NormalizeRow(Row{
		TowerName:       "Alpha",
		UnitNumber:      "101",
		Status:          "Vacant",
		ContractEndDate: "N/A",
	})
	assert.Equal(t, "", rec.Unit.ContractEndDate)
}
