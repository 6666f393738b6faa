package models

import "time"

// SubscriptionModel is the persistence model for activation requests.
// This is the anti-corruption layer between domain and database.
type SubscriptionModel struct {
	ID            uint   `gorm:"primarykey"`
	DeviceID      string `gorm:"uniqueIndex;not null;size:191"`
	Phone         string `gorm:"not null;size:32"`
	ClientName    string `gorm:"size:100"`
	Months        int    `gorm:"not null;default:1"`
	ActivationKey string `gorm:"uniqueIndex;not null;size:32"`
	Status        string `gorm:"not null;size:20;index:idx_subscription_status"`
	CreatedAt     time.Time
	ExpiresAt     *time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
