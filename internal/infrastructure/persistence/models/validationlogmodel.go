package models

import "time"

// ValidationLogModel is the persistence model for the append-only history
// of validation events. Rows are never updated or deleted.
type ValidationLogModel struct {
	ID            uint   `gorm:"primarykey"`
	DeviceID      string `gorm:"not null;size:191;index:idx_validation_device"`
	ClientID      uint   `gorm:"not null;index:idx_validation_client"`
	AdminID       uint   `gorm:"not null;index:idx_validation_admin"`
	AdminName     string `gorm:"not null;size:100"`
	Months        int    `gorm:"not null"`
	ActivationKey string `gorm:"not null;size:32"`
	ExpiresAt     time.Time
	ValidatedAt   time.Time `gorm:"not null;index:idx_validation_time"`
}

// TableName specifies the table name for GORM
func (ValidationLogModel) TableName() string {
	return "validation_logs"
}
