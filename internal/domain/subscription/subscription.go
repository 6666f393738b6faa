package subscription

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle status of a subscription request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
)

// Subscription represents one activation request per device. The device
// identifier is the natural key; at most one row exists per device.
type Subscription struct {
	id            uint
	deviceID      string
	phone         string
	clientName    string
	months        int
	activationKey string
	status        Status
	createdAt     time.Time
	expiresAt     *time.Time
}

// NewSubscription creates a new pending subscription request.
// clientName is optional and may be empty.
func NewSubscription(deviceID, phone, clientName string, months int, activationKey string) (*Subscription, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("device ID is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if months <= 0 {
		return nil, ErrInvalidDuration
	}
	if activationKey == "" {
		return nil, fmt.Errorf("activation key is required")
	}

	return &Subscription{
		deviceID:      deviceID,
		phone:         phone,
		clientName:    clientName,
		months:        months,
		activationKey: activationKey,
		status:        StatusPending,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(
	id uint,
	deviceID, phone, clientName string,
	months int,
	activationKey string,
	status Status,
	createdAt time.Time,
	expiresAt *time.Time,
) *Subscription {
	return &Subscription{
		id:            id,
		deviceID:      deviceID,
		phone:         phone,
		clientName:    clientName,
		months:        months,
		activationKey: activationKey,
		status:        status,
		createdAt:     createdAt,
		expiresAt:     expiresAt,
	}
}

// Validate transitions the subscription from pending to validated.
// The expiry is computed by the caller so that the same value can be
// recorded in the history ledger.
func (s *Subscription) Validate(expiresAt time.Time) error {
	if s.status != StatusPending {
		return ErrAlreadyProcessed
	}
	s.status = StatusValidated
	s.expiresAt = &expiresAt
	return nil
}

// IsPending reports whether the subscription awaits administrator approval.
func (s *Subscription) IsPending() bool {
	return s.status == StatusPending
}

// DisplayName returns the client name, falling back to the phone number.
func (s *Subscription) DisplayName() string {
	if s.clientName != "" {
		return s.clientName
	}
	return s.phone
}

func (s *Subscription) ID() uint              { return s.id }
func (s *Subscription) DeviceID() string      { return s.deviceID }
func (s *Subscription) Phone() string         { return s.phone }
func (s *Subscription) ClientName() string    { return s.clientName }
func (s *Subscription) Months() int           { return s.months }
func (s *Subscription) ActivationKey() string { return s.activationKey }
func (s *Subscription) Status() Status        { return s.status }
func (s *Subscription) CreatedAt() time.Time  { return s.createdAt }
func (s *Subscription) ExpiresAt() *time.Time { return s.expiresAt }

// SetID sets the persistence identifier after creation.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	s.id = id
	return nil
}
