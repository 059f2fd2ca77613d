package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"vacancy-analytics/internal/models"
)

// Field selects one exportable column.
type Field string

const (
	FieldUnitNumber      Field = "unitNumber"
	FieldUnitType        Field = "unitType"
	FieldRentPrice       Field = "rentPrice"
	FieldStatus          Field = "status"
	FieldContractEndDate Field = "contractEndDate"
	FieldDaysVacant      Field = "daysVacant"
	FieldNotes           Field = "notes"
)

// Placeholder rendered for unknown optional values. Never an empty cell and
// never "null".
const Placeholder = "N/A"

// allFields is the canonical column order. Output columns always follow this
// order regardless of how the selection was given.
var allFields = []Field{
	FieldUnitNumber,
	FieldUnitType,
	FieldRentPrice,
	FieldStatus,
	FieldContractEndDate,
	FieldDaysVacant,
	FieldNotes,
}

// Column header labels are fixed strings regardless of internal field naming.
var fieldLabels = map[Field]string{
	FieldUnitNumber:      "Unit Number",
	FieldUnitType:        "Unit Type",
	FieldRentPrice:       "Rent Price (AED/year)",
	FieldStatus:          "Status",
	FieldContractEndDate: "Contract End Date",
	FieldDaysVacant:      "Days Vacant",
	FieldNotes:           "Notes",
}

// DefaultFields is the selection used when the caller picks nothing:
// everything except notes.
func DefaultFields() []Field {
	return []Field{
		FieldUnitNumber, FieldUnitType, FieldRentPrice,
		FieldStatus, FieldContractEndDate, FieldDaysVacant,
	}
}

// ParseFields parses a comma-separated field selection. An empty input yields
// the default selection; an unrecognized field name is an error.
func ParseFields(s string) ([]Field, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultFields(), nil
	}

	selected := make(map[Field]bool)
	for _, token := range strings.Split(s, ",") {
		f := Field(strings.TrimSpace(token))
		if _, ok := fieldLabels[f]; !ok {
			return nil, fmt.Errorf("unknown export field %q", token)
		}
		selected[f] = true
	}

	fields := make([]Field, 0, len(selected))
	for _, f := range allFields {
		if selected[f] {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// CSV serializes a tower's units into delimited text: a header row plus one
// row per unit, encoding only the selected fields. Deterministic for the same
// unit list and selection.
func CSV(units []models.UnitRecord, fields []Field) (string, error) {
	if len(fields) == 0 {
		fields = DefaultFields()
	}

	// Normalize to canonical column order.
	selected := make(map[Field]bool, len(fields))
	for _, f := range fields {
		selected[f] = true
	}
	ordered := make([]Field, 0, len(fields))
	header := make([]string, 0, len(fields))
	for _, f := range allFields {
		if selected[f] {
			ordered = append(ordered, f)
			header = append(header, fieldLabels[f])
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i := range units {
		row := make([]string, 0, len(ordered))
		for _, f := range ordered {
			row = append(row, fieldValue(&units[i], f))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write unit row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fieldValue(u *models.UnitRecord, f Field) string {
	switch f {
	case FieldUnitNumber:
		return u.UnitNumber
	case FieldUnitType:
		return u.UnitType
	case FieldRentPrice:
		if u.RentPrice == nil {
			return Placeholder
		}
		// No thousands separators.
		return strconv.FormatFloat(*u.RentPrice, 'f', -1, 64)
	case FieldStatus:
		return string(u.Status)
	case FieldContractEndDate:
		if u.ContractEndDate == "" {
			return Placeholder
		}
		return u.ContractEndDate
	case FieldDaysVacant:
		if u.DaysVacant == nil {
			return Placeholder
		}
		return strconv.Itoa(*u.DaysVacant)
	case FieldNotes:
		return u.Notes
	}
	return ""
}
