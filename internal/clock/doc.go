// Package clock supplies corrected wall-clock time for deadline scheduling.
//
// A Clock samples a correction offset once at start-up from an NTP server
// and applies it to every subsequent reading. If the network query fails
// the clock degrades to the uncorrected system time; precision drops but
// the run continues.
package clock
