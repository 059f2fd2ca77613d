package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vacancy-analytics/internal/models"
)

// Column headers recognized in uploads. The first alias of each group is the
// canonical import label; the rest cover exports produced by this system and
// older hand-maintained sheets. Matching is case-insensitive on the trimmed
// label. Columns outside this table are ignored, not rejected.
var headerAliases = map[string]string{
	"tower name":             "tower",
	"area":                   "area",
	"unit no.":               "unit",
	"unit no":                "unit",
	"unit number":            "unit",
	"unit type":              "type",
	"status":                 "status",
	"last contract end date": "contract",
	"contract end date":      "contract",
	"days vacant":            "days",
	"last known rent":        "rent",
	"rent price (aed/year)":  "rent",
	"rent price":             "rent",
	"notes":                  "notes",
}

// ParseCSV reads header-named delimited text into raw rows. The header row is
// required; a file with no tower-name column parses fine and every row is
// later skipped by normalization.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	// Map column index -> canonical field key.
	cols := make(map[int]string, len(header))
	for i, label := range header {
		key := strings.ToLower(strings.TrimSpace(label))
		if field, ok := headerAliases[key]; ok {
			cols[i] = field
		}
	}

	var rows []Row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		var row Row
		empty := true
		for i, value := range fields {
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			switch cols[i] {
			case "tower":
				row.TowerName = value
			case "area":
				row.Area = value
			case "unit":
				row.UnitNumber = value
			case "type":
				row.UnitType = value
			case "status":
				row.Status = value
			case "contract":
				row.ContractEndDate = value
			case "days":
				row.DaysVacant = value
			case "rent":
				row.RentPrice = value
			case "notes":
				row.Notes = value
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// RowFromStored converts a stored unit row back into a raw row, so a rebuild
// pass runs through the same normalization as a fresh upload.
func RowFromStored(u models.VacantUnitRow) Row {
	row := Row{
		TowerName:       u.TowerName,
		Area:            u.Area,
		UnitNumber:      u.UnitNo,
		UnitType:        u.UnitType,
		Status:          u.Status,
		ContractEndDate: u.LastContractEndDate,
		Notes:           u.Notes,
	}
	if u.DaysVacant != nil {
		row.DaysVacant = strconv.Itoa(*u.DaysVacant)
	}
	if u.LastKnownRent != nil {
		row.RentPrice = strconv.FormatFloat(*u.LastKnownRent, 'f', -1, 64)
	}
	return row
}

// StoredFromRecord converts a normalized record into its storable row form.
func StoredFromRecord(rec Record) models.VacantUnitRow {
	return models.VacantUnitRow{
		TowerName:           rec.TowerName,
		TowerSlug:           rec.TowerSlug,
		Area:                rec.TowerArea,
		UnitNo:              rec.Unit.UnitNumber,
		UnitType:            rec.Unit.UnitType,
		Status:              string(rec.Unit.Status),
		LastContractEndDate: rec.Unit.ContractEndDate,
		DaysVacant:          rec.Unit.DaysVacant,
		LastKnownRent:       rec.Unit.RentPrice,
		Notes:               rec.Unit.Notes,
	}
}
