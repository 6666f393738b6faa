// Package biztime provides time helpers. All storage and transport use UTC;
// implicit local timezone is prohibited.
package biztime

import "time"

// DaysPerMonth is the fixed month length used for subscription expiry
// arithmetic. Mobile clients depend on the 30-day approximation.
const DaysPerMonth = 30

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ExpiryFromMonths returns the expiry timestamp for a subscription granted
// the given number of months, counted from the given validation time.
func ExpiryFromMonths(validatedAt time.Time, months int) time.Time {
	return validatedAt.Add(time.Duration(months) * DaysPerMonth * 24 * time.Hour)
}
