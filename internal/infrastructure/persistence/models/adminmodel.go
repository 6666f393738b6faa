package models

import "time"

// AdminModel is the persistence model for administrator accounts.
type AdminModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"not null;size:100"`
	Phone        string `gorm:"uniqueIndex;not null;size:32"`
	PasswordHash string `gorm:"not null;size:100"`
	CreatedAt    time.Time
}

// TableName specifies the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}
