package schedule

import (
	"context"
	"runtime"
	"time"
)

const (
	// DefaultCoarseThreshold is the remaining duration below which the
	// waiter switches from coarse sleeping to fine polling.
	DefaultCoarseThreshold = 5 * time.Second
	// DefaultCoarseInterval is the sleep step used far from the deadline.
	DefaultCoarseInterval = 500 * time.Millisecond
	// DefaultPollInterval is the fine polling step near the deadline.
	DefaultPollInterval = 20 * time.Millisecond
)

// Waiter blocks until a deadline on a corrected clock. Far from the
// deadline it sleeps in coarse steps, re-checking remaining time after
// each so that system suspend or clock adjustments cannot cause a long
// overshoot. Inside the coarse threshold it polls at sub-100ms
// granularity to keep the wake-up error small.
type Waiter struct {
	// Now reads the corrected current time. Defaults to time.Now.
	Now func() time.Time
	// CoarseThreshold is the remaining duration at which fine polling starts.
	CoarseThreshold time.Duration
	// CoarseInterval is the sleep step of the coarse phase.
	CoarseInterval time.Duration
	// PollInterval is the sleep step of the fine phase.
	PollInterval time.Duration
	// OnProgress, when set, is called once per coarse step with the
	// remaining duration. Used for countdown display.
	OnProgress func(remaining time.Duration)
}

// NewWaiter returns a Waiter on the provided clock with default tuning.
func NewWaiter(now func() time.Time) *Waiter {
	return &Waiter{
		Now:             now,
		CoarseThreshold: DefaultCoarseThreshold,
		CoarseInterval:  DefaultCoarseInterval,
		PollInterval:    DefaultPollInterval,
	}
}

// WaitUntil blocks until the deadline is reached on the waiter's clock and
// returns the measured overshoot. It never returns before the deadline
// unless the context is canceled, in which case ctx.Err() is returned.
func (w *Waiter) WaitUntil(ctx context.Context, deadline time.Time) (time.Duration, error) {
	now := w.now()

	// Coarse phase: sleep in bounded steps, never past the switch point.
	for {
		remaining := deadline.Sub(now)
		if remaining <= w.coarseThreshold() {
			break
		}

		if w.OnProgress != nil {
			w.OnProgress(remaining)
		}

		step := w.coarseInterval()
		if toSwitch := remaining - w.coarseThreshold(); step > toSwitch {
			step = toSwitch
		}

		if err := sleepContext(ctx, step); err != nil {
			return 0, err
		}

		now = w.now()
	}

	// Fine phase: short poll steps, then yield-spin through the last one.
	for {
		remaining := deadline.Sub(now)
		if remaining <= 0 {
			return -remaining, nil
		}

		if remaining > w.pollInterval() {
			if err := sleepContext(ctx, w.pollInterval()); err != nil {
				return 0, err
			}

			now = w.now()

			continue
		}

		// Last stretch: poll as fast as the scheduler allows.
		for {
			now = w.now()
			if !now.Before(deadline) {
				return now.Sub(deadline), nil
			}

			if err := ctx.Err(); err != nil {
				return 0, err
			}

			runtime.Gosched()
		}
	}
}

// sleepContext sleeps for the duration or returns early with ctx.Err().
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Waiter) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}

	return time.Now()
}

func (w *Waiter) coarseThreshold() time.Duration {
	if w.CoarseThreshold > 0 {
		return w.CoarseThreshold
	}

	return DefaultCoarseThreshold
}

func (w *Waiter) coarseInterval() time.Duration {
	if w.CoarseInterval > 0 {
		return w.CoarseInterval
	}

	return DefaultCoarseInterval
}

func (w *Waiter) pollInterval() time.Duration {
	if w.PollInterval > 0 {
		return w.PollInterval
	}

	return DefaultPollInterval
}
