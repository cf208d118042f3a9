// Package trigger fires the planned tap sequence once the deadline hits.
//
// Execution is fire-and-forget: each tap is dispatched best-effort and a
// failed dispatch never aborts the remaining ones, since the remote quota
// window offers no feedback channel and no second chance.
package trigger
