package schedule

import "time"

// NextDeadline resolves the next absolute instant at which the target
// moment occurs, strictly after now. The candidate is built on the current
// calendar day in the target zone; a candidate at or before now rolls
// forward exactly one day, which covers both "just missed it" and
// "already past midnight" uniformly. Firing must never happen early, so
// exact equality also rolls over.
func NextDeadline(now time.Time, target TargetMoment) time.Time {
	zoned := now.In(target.Location())

	candidate := time.Date(
		zoned.Year(), zoned.Month(), zoned.Day(),
		target.Hour, target.Minute, target.Second, 0,
		zoned.Location(),
	)

	if !candidate.After(zoned) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	return candidate
}
