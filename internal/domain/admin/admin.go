// Package admin holds the administrator authentication principal.
package admin

import (
	"fmt"
	"strings"
	"time"
)

// MaxAdmins is the fixed cap on the administrator population, enforced at
// signup time rather than by a database constraint.
const MaxAdmins = 6

// Admin is an authentication principal. The phone number is the unique
// login identifier.
type Admin struct {
	id           uint
	name         string
	phone        string
	passwordHash string
	createdAt    time.Time
}

// NewAdmin creates an administrator with an already-hashed password.
func NewAdmin(name, phone, passwordHash string) (*Admin, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	return &Admin{
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructAdmin reconstructs an administrator from persistence.
func ReconstructAdmin(id uint, name, phone, passwordHash string, createdAt time.Time) *Admin {
	return &Admin{
		id:           id,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

func (a *Admin) ID() uint             { return a.id }
func (a *Admin) Name() string         { return a.name }
func (a *Admin) Phone() string        { return a.phone }
func (a *Admin) PasswordHash() string { return a.passwordHash }
func (a *Admin) CreatedAt() time.Time { return a.createdAt }

// SetID sets the persistence identifier after creation.
func (a *Admin) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("admin ID already set")
	}
	a.id = id
	return nil
}
