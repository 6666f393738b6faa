// Package ledger holds the append-only history of validation events.
package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one immutable validation record. The admin name is denormalized
// so history survives administrator removal.
type Entry struct {
	id            uint
	deviceID      string
	clientID      uint
	adminID       uint
	adminName     string
	months        int
	activationKey string
	expiresAt     time.Time
	validatedAt   time.Time
}

// NewEntry creates a ledger entry for a completed validation. The expiry
// must be the exact value written to the subscription.
func NewEntry(deviceID string, clientID, adminID uint, adminName string, months int, activationKey string, expiresAt, validatedAt time.Time) (*Entry, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("device ID is required")
	}
	if clientID == 0 {
		return nil, fmt.Errorf("client ID is required")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}
	if months <= 0 {
		return nil, fmt.Errorf("months must be positive")
	}

	return &Entry{
		deviceID:      deviceID,
		clientID:      clientID,
		adminID:       adminID,
		adminName:     adminName,
		months:        months,
		activationKey: activationKey,
		expiresAt:     expiresAt,
		validatedAt:   validatedAt,
	}, nil
}

// ReconstructEntry reconstructs a ledger entry from persistence.
func ReconstructEntry(id uint, deviceID string, clientID, adminID uint, adminName string, months int, activationKey string, expiresAt, validatedAt time.Time) *Entry {
	return &Entry{
		id:            id,
		deviceID:      deviceID,
		clientID:      clientID,
		adminID:       adminID,
		adminName:     adminName,
		months:        months,
		activationKey: activationKey,
		expiresAt:     expiresAt,
		validatedAt:   validatedAt,
	}
}

func (e *Entry) ID() uint              { return e.id }
func (e *Entry) DeviceID() string      { return e.deviceID }
func (e *Entry) ClientID() uint        { return e.clientID }
func (e *Entry) AdminID() uint         { return e.adminID }
func (e *Entry) AdminName() string     { return e.adminName }
func (e *Entry) Months() int           { return e.months }
func (e *Entry) ActivationKey() string { return e.activationKey }
func (e *Entry) ExpiresAt() time.Time  { return e.expiresAt }
func (e *Entry) ValidatedAt() time.Time { return e.validatedAt }

// SetID sets the persistence identifier after creation.
func (e *Entry) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("ledger entry ID already set")
	}
	e.id = id
	return nil
}
