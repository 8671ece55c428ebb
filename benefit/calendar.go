package benefit

import "time"

// =============================================================================
// DAY-COUNT CONVENTION
// =============================================================================

// DaysOfRelationship returns the whole-day span of the employment
// relationship. Dates are normalized to midnight UTC before differencing,
// and the absolute value is taken so argument order cannot flip the sign.
// 2023-01-01 to 2024-01-01 is 365 days.
func DaysOfRelationship(hire, termination time.Time) int {
	days := int(normalize(termination).Sub(normalize(hire)).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
