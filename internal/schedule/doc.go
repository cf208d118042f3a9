// Package schedule derives trigger deadlines and waits for them precisely.
//
// A TargetMoment names a recurring time-of-day in a fixed-offset timezone;
// NextDeadline resolves it against a corrected "now" into the next future
// absolute instant. Waiter then blocks until that instant using coarse
// sleeps far out and fine polling close in, bounding wake-up error to well
// under a second without burning CPU for the whole wait.
package schedule
