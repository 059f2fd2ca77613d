package database

import (
	"time"

	"vacancy-analytics/internal/models"
)

// Store is the row-oriented persistence the aggregation pipeline consumes.
// Unit rows are returned in ingestion order; replacing them is the only way
// to "update" unit data.
type Store interface {
	InitSchema() error
	Close() error

	// ReplaceUnits swaps the full unit row set atomically.
	ReplaceUnits(rows []models.VacantUnitRow) error
	// GetUnits returns every stored unit row in ingestion order.
	GetUnits() ([]models.VacantUnitRow, error)
	CountUnits() (int64, error)

	SaveLead(lead *models.Lead) error
	CountLeads() (int64, error)

	SaveImportLog(l *models.ImportLog) error
	GetImportLogs(limit int) ([]models.ImportLog, error)
	// PurgeImportLogs deletes logs older than the cutoff, returning how
	// many rows went away.
	PurgeImportLogs(before time.Time) (int64, error)
}
