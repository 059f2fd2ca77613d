package models

import "time"

// ImportLog records one admin data upload: how many rows landed, how many
// were skipped during normalization, and how many towers they grouped into.
type ImportLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName      string    `gorm:"type:varchar(255)" json:"file_name"`
	RowsProcessed int       `gorm:"type:int;not null" json:"rows_processed"`
	RowsSkipped   int       `gorm:"type:int;not null" json:"rows_skipped"`
	TowerCount    int       `gorm:"type:int;not null" json:"tower_count"`
	CreatedAt     time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
}

// TableName pins the table name explicitly
func (ImportLog) TableName() string {
	return "import_logs"
}
