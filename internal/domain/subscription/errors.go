package subscription

import "errors"

var (
	ErrNotFound         = errors.New("subscription not found")
	ErrAlreadyProcessed = errors.New("subscription already processed")
	ErrInvalidDuration  = errors.New("duration must be at least one month")
)
