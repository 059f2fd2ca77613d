package models

import "time"

// VacantUnitRow is one stored row of the unit import. Rows are kept exactly
// as uploaded; the aggregation pipeline re-normalizes them on every pass, so
// "update" means replacing the full row set.
type VacantUnitRow struct {
	ID                  uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	TowerName           string   `gorm:"type:varchar(255);not null;index" json:"tower_name"`
	TowerSlug           string   `gorm:"type:varchar(255);not null;index" json:"tower_slug"`
	Area                string   `gorm:"type:varchar(100);index" json:"area,omitempty"`
	UnitNo              string   `gorm:"type:varchar(50);not null" json:"unit_no"`
	UnitType            string   `gorm:"type:varchar(50)" json:"unit_type,omitempty"`
	Status              string   `gorm:"type:varchar(100);not null" json:"status"`
	LastContractEndDate string   `gorm:"type:varchar(50)" json:"last_contract_end_date,omitempty"`
	DaysVacant          *int     `gorm:"type:int" json:"days_vacant,omitempty"`
	LastKnownRent       *float64 `gorm:"type:decimal(12,2)" json:"last_known_rent,omitempty"`
	Notes               string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName pins the table name explicitly
func (VacantUnitRow) TableName() string {
	return "vacant_units"
}
