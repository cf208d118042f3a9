package clock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source tags where the authoritative time came from.
type Source string

const (
	// SourceLocal means the uncorrected system clock is used.
	SourceLocal Source = "local"
	// SourceNetwork means the system clock is corrected against an NTP server.
	SourceNetwork Source = "network"
)

// Reference describes the time correction established at start-up.
type Reference struct {
	// SyncedAt is the corrected wall time at the moment of synchronization.
	SyncedAt time.Time
	// Source tags whether the correction came from the network or the local clock.
	Source Source
	// Offset is the correction applied to the local clock. Zero for SourceLocal.
	Offset time.Duration
}

// Querier obtains the current time from a remote reference.
type Querier interface {
	QueryNetworkTime(ctx context.Context) (time.Time, error)
}

// errAlreadySynced guards the run-long invariant that the offset
// is sampled exactly once and held constant afterwards.
var errAlreadySynced = errors.New("clock is already synchronized")

// Clock supplies corrected wall-clock time. The correction offset is
// sampled once via Sync and applied to every subsequent Now call; repeated
// network queries near the deadline would only add latency and variance.
type Clock struct {
	// now reads the local wall clock. Injectable for tests.
	now func() time.Time

	// offset is the fixed correction established by Sync.
	offset time.Duration
	// source tags the origin of the correction.
	source Source
	// synced records whether Sync has already run.
	synced bool
}

// New returns a Clock backed by the system clock with no correction applied.
func New() *Clock {
	return &Clock{
		now:    time.Now,
		source: SourceLocal,
	}
}

// NewWithNow returns a Clock reading local time from the provided function.
// Used by tests and the synthetic-time harness.
func NewWithNow(now func() time.Time) *Clock {
	return &Clock{
		now:    now,
		source: SourceLocal,
	}
}

// Sync samples the correction offset from the remote reference.
// On failure the clock keeps zero offset and the local source; the caller
// decides how loudly to report it, the run itself must continue.
func (c *Clock) Sync(ctx context.Context, querier Querier) error {
	if c.synced {
		return errAlreadySynced
	}

	c.synced = true

	networkTime, err := querier.QueryNetworkTime(ctx)
	if err != nil {
		c.offset = 0
		c.source = SourceLocal

		return fmt.Errorf("query network time: %w", err)
	}

	c.offset = networkTime.Sub(c.now())
	c.source = SourceNetwork

	return nil
}

// Now returns the corrected current time.
func (c *Clock) Now() time.Time {
	return c.now().Add(c.offset)
}

// Reference reports the established correction.
func (c *Clock) Reference() Reference {
	return Reference{
		SyncedAt: c.Now(),
		Source:   c.source,
		Offset:   c.offset,
	}
}
