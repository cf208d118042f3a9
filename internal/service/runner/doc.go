// Package runner orchestrates a single scheduling run: device preflight,
// tap-point resolution, clock synchronization, deadline computation, the
// precision wait and the final tap sequence.
//
// A run is strictly linear and single-threaded; the only blocking point
// is the waiter. Test mode swaps the synchronized clock and the live
// target for synthetic inputs while exercising the same pipeline.
package runner
