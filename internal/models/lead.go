package models

import "time"

// Lead is one contact-form submission from the public site.
type Lead struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	TowerName string    `gorm:"type:varchar(255)" json:"tower_name,omitempty"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"created_at"`
}

// TableName pins the table name explicitly
func (Lead) TableName() string {
	return "leads"
}
