package models

import "time"

// ClientModel is the persistence model for durable client identities.
// The unique index on DeviceID is what makes lazy creation race-safe.
type ClientModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:50"`
	Name      string `gorm:"not null;size:100"`
	Phone     string `gorm:"not null;size:32;index:idx_client_phone"`
	DeviceID  string `gorm:"uniqueIndex;not null;size:191"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}
