package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vacancy-analytics/internal/models"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.VacantUnitRow{},
		&models.Lead{},
		&models.ImportLog{},
	)
}

// ReplaceUnits swaps the full unit row set in one transaction. IDs restart
// from scratch so that id order stays ingestion order.
func (gdb *GormDB) ReplaceUnits(rows []models.VacantUnitRow) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.VacantUnitRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear unit rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert unit rows: %w", err)
		}
		return nil
	})
}

// GetUnits returns every unit row in ingestion order
func (gdb *GormDB) GetUnits() ([]models.VacantUnitRow, error) {
	var rows []models.VacantUnitRow
	if err := gdb.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (gdb *GormDB) CountUnits() (int64, error) {
	var count int64
	err := gdb.db.Model(&models.VacantUnitRow{}).Count(&count).Error
	return count, err
}

// SaveLead stores one lead submission
func (gdb *GormDB) SaveLead(lead *models.Lead) error {
	return gdb.db.Create(lead).Error
}

func (gdb *GormDB) CountLeads() (int64, error) {
	var count int64
	err := gdb.db.Model(&models.Lead{}).Count(&count).Error
	return count, err
}

// SaveImportLog stores bookkeeping for one upload
func (gdb *GormDB) SaveImportLog(l *models.ImportLog) error {
	return gdb.db.Create(l).Error
}

// GetImportLogs returns the most recent import logs
func (gdb *GormDB) GetImportLogs(limit int) ([]models.ImportLog, error) {
	var logs []models.ImportLog
	if err := gdb.db.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// PurgeImportLogs deletes import logs older than the cutoff
func (gdb *GormDB) PurgeImportLogs(before time.Time) (int64, error) {
	result := gdb.db.Where("created_at < ?", before).Delete(&models.ImportLog{})
	return result.RowsAffected, result.Error
}
