package admin

import "errors"

var (
	ErrNotFound         = errors.New("admin not found")
	ErrPhoneExists      = errors.New("phone number already registered")
	ErrMaxAdminsReached = errors.New("administrator limit reached")
)
