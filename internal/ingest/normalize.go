package ingest

import (
	"log"
	"strconv"
	"strings"

	"vacancy-analytics/internal/models"
)

// Row is one raw import row with free-form text fields, keyed by what the
// header mapping resolved. Empty string means the column was absent.
type Row struct {
	TowerName       string
	Area            string
	UnitNumber      string
	UnitType        string
	Status          string
	ContractEndDate string
	DaysVacant      string
	RentPrice       string
	Notes           string
}

// Record is one normalized unit together with its tower identity.
type Record struct {
	TowerName string
	TowerArea string
	TowerSlug string
	Unit      models.UnitRecord
}

// Result is the outcome of a normalization pass. Skipped rows are a warning
// signal for the caller, never a failure.
type Result struct {
	Records []Record
	Skipped int
}

// NormalizeRow turns one raw row into a Record. The second return value is
// false when the row has no tower name and must be skipped.
func NormalizeRow(r Row) (Record, bool) {
	towerName := strings.TrimSpace(r.TowerName)
	if towerName == "" {
		return Record{}, false
	}

	unitType := strings.TrimSpace(r.UnitType)
	if unitType == "" {
		unitType = models.DefaultUnitType
	}

	rec := Record{
		TowerName: towerName,
		TowerArea: strings.TrimSpace(r.Area),
		TowerSlug: Slugify(towerName),
		Unit: models.UnitRecord{
			UnitNumber:      strings.TrimSpace(r.UnitNumber),
			UnitType:        unitType,
			Status:          models.UnitStatus(strings.TrimSpace(r.Status)),
			RentPrice:       parseRent(r.RentPrice),
			DaysVacant:      parseDays(r.DaysVacant),
			ContractEndDate: parseDate(r.ContractEndDate),
			Notes:           strings.TrimSpace(r.Notes),
		},
	}
	rec.Unit.TowerSlug = rec.TowerSlug

	return rec, true
}

// NormalizeRows runs NormalizeRow over a batch. Rows without a tower name are
// dropped with a warning and counted; nothing aborts the batch.
func NormalizeRows(rows []Row) Result {
	result := Result{Records: make([]Record, 0, len(rows))}

	for i, row := range rows {
		rec, ok := NormalizeRow(row)
		if !ok {
			log.Printf("[ingest] skipping row %d: no tower name (unit=%q)", i+1, row.UnitNumber)
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result
}

// parseRent parses a rent value permissively. Anything that does not parse as
// a positive number becomes unknown, never zero and never an error.
func parseRent(s string) *float64 {
	v, ok := parseNumeric(s)
	if !ok || v <= 0 {
		return nil
	}
	return &v
}

// parseDays parses a days-vacant value permissively; fractional day counts in
// the source are truncated. Negative or unparseable values become unknown.
func parseDays(s string) *int {
	v, ok := parseNumeric(s)
	if !ok || v < 0 {
		return nil
	}
	d := int(v)
	return &d
}

// parseDate keeps the date text as-is; the placeholder our own exports write
// for unknown dates maps back to absent.
func parseDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "N/A") {
		return ""
	}
	return s
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Source exports write thousands separators now and then.
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
