package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"vacancy-analytics/internal/models"
)

type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname, sslmode string) (*DB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the tables if they don't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS vacant_units (
		id SERIAL PRIMARY KEY,
		tower_name VARCHAR(255) NOT NULL,
		tower_slug VARCHAR(255) NOT NULL,
		area VARCHAR(100),
		unit_no VARCHAR(50) NOT NULL,
		unit_type VARCHAR(50),
		status VARCHAR(100) NOT NULL,
		last_contract_end_date VARCHAR(50),
		days_vacant INTEGER,
		last_known_rent DECIMAL(12, 2),
		notes TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_vacant_units_tower_slug ON vacant_units(tower_slug);
	CREATE INDEX IF NOT EXISTS idx_vacant_units_area ON vacant_units(area);

	CREATE TABLE IF NOT EXISTS leads (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(50),
		tower_name VARCHAR(255),
		message TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email);
	CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);

	CREATE TABLE IF NOT EXISTS import_logs (
		id SERIAL PRIMARY KEY,
		file_name VARCHAR(255),
		rows_processed INTEGER NOT NULL,
		rows_skipped INTEGER NOT NULL,
		tower_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_import_logs_created_at ON import_logs(created_at);
	`
	_, err := db.conn.Exec(query)
	return err
}

// ReplaceUnits swaps the full unit row set in one transaction
func (db *DB) ReplaceUnits(rows []models.VacantUnitRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM vacant_units`); err != nil {
		return fmt.Errorf("failed to clear unit rows: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO vacant_units (
		tower_name, tower_slug, area, unit_no, unit_type, status,
		last_contract_end_date, days_vacant, last_known_rent, notes, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.TowerName, r.TowerSlug, nullString(r.Area), r.UnitNo,
			nullString(r.UnitType), r.Status, nullString(r.LastContractEndDate),
			nullInt(r.DaysVacant), nullFloat(r.LastKnownRent), nullString(r.Notes),
		)
		if err != nil {
			return fmt.Errorf("failed to insert unit row %s/%s: %w", r.TowerSlug, r.UnitNo, err)
		}
	}

	return tx.Commit()
}

// GetUnits returns every unit row in ingestion order
func (db *DB) GetUnits() ([]models.VacantUnitRow, error) {
	rows, err := db.conn.Query(`
	SELECT id, tower_name, tower_slug, area, unit_no, unit_type, status,
	       last_contract_end_date, days_vacant, last_known_rent, notes, created_at
	FROM vacant_units
	ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.VacantUnitRow
	for rows.Next() {
		var u models.VacantUnitRow
		var area, unitType, contract, notes sql.NullString
		var days sql.NullInt64
		var rent sql.NullFloat64

		err := rows.Scan(
			&u.ID, &u.TowerName, &u.TowerSlug, &area, &u.UnitNo, &unitType,
			&u.Status, &contract, &days, &rent, &notes, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		u.Area = area.String
		u.UnitType = unitType.String
		u.LastContractEndDate = contract.String
		u.Notes = notes.String
		if days.Valid {
			d := int(days.Int64)
			u.DaysVacant = &d
		}
		if rent.Valid {
			v := rent.Float64
			u.LastKnownRent = &v
		}

		units = append(units, u)
	}

	return units, rows.Err()
}

func (db *DB) CountUnits() (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM vacant_units`).Scan(&count)
	return count, err
}

// SaveLead stores one lead submission
func (db *DB) SaveLead(lead *models.Lead) error {
	_, err := db.conn.Exec(`
	INSERT INTO leads (id, name, email, phone, tower_name, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lead.ID, lead.Name, lead.Email, nullString(lead.Phone),
		nullString(lead.TowerName), nullString(lead.Message), time.Now(),
	)
	return err
}

func (db *DB) CountLeads() (int64, error) {
	var count int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count)
	return count, err
}

// SaveImportLog stores bookkeeping for one upload
func (db *DB) SaveImportLog(l *models.ImportLog) error {
	return db.conn.QueryRow(`
	INSERT INTO import_logs (file_name, rows_processed, rows_skipped, tower_count, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	RETURNING id`,
		nullString(l.FileName), l.RowsProcessed, l.RowsSkipped, l.TowerCount,
	).Scan(&l.ID)
}

// GetImportLogs returns the most recent import logs
func (db *DB) GetImportLogs(limit int) ([]models.ImportLog, error) {
	rows, err := db.conn.Query(`
	SELECT id, file_name, rows_processed, rows_skipped, tower_count, created_at
	FROM import_logs
	ORDER BY created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		var fileName sql.NullString
		if err := rows.Scan(&l.ID, &fileName, &l.RowsProcessed, &l.RowsSkipped, &l.TowerCount, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.FileName = fileName.String
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// PurgeImportLogs deletes import logs older than the cutoff
func (db *DB) PurgeImportLogs(before time.Time) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM import_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
