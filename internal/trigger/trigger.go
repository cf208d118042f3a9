package trigger

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/oshokin/unlock-tapper/internal/logger"
)

const (
	// DefaultClicks is the number of taps fired at the deadline.
	DefaultClicks = 2
	// DefaultDelay is the pause between consecutive taps.
	DefaultDelay = time.Second
)

var (
	// errNonPositiveClicks is returned when a plan has no taps to fire.
	errNonPositiveClicks = errors.New("click count must be positive")
	// errNegativeDelay is returned when a plan's inter-tap delay is negative.
	errNegativeDelay = errors.New("delay must not be negative")
	// ErrAllTapsFailed is returned when not a single tap was dispatched.
	ErrAllTapsFailed = errors.New("all taps failed")
)

// Plan describes the input sequence fired once the deadline is reached.
type Plan struct {
	// Clicks is the number of taps to dispatch.
	Clicks int
	// Delay is the pause after each tap except the last.
	Delay time.Duration
	// Point is the screen coordinate to tap, resolved before scheduling.
	Point image.Point
}

// Validate rejects plans that cannot be executed.
func (p Plan) Validate() error {
	if p.Clicks < 1 {
		return errNonPositiveClicks
	}

	if p.Delay < 0 {
		return errNegativeDelay
	}

	return nil
}

// Tapper dispatches a single tap event to the device.
type Tapper interface {
	Tap(ctx context.Context, x, y int) error
}

// Executor fires trigger plans against a device.
type Executor struct {
	// tapper dispatches the individual input events.
	tapper Tapper
	// sleep pauses between taps. Injectable for tests.
	sleep func(time.Duration)
}

// NewExecutor creates an Executor dispatching taps through the provided Tapper.
func NewExecutor(tapper Tapper) *Executor {
	return &Executor{
		tapper: tapper,
		sleep:  time.Sleep,
	}
}

// Fire dispatches the plan's taps with the configured delay between
// consecutive events. Individual dispatch failures are logged and the
// remaining taps still fire: with a one-shot daily window a partial
// attempt beats none. There is no verification of remote effect.
func (e *Executor) Fire(ctx context.Context, plan Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	failed := 0

	for i := 0; i < plan.Clicks; i++ {
		if err := e.tapper.Tap(ctx, plan.Point.X, plan.Point.Y); err != nil {
			failed++

			logger.ErrorKV(ctx, "Tap dispatch failed", "tap", i+1, "of", plan.Clicks, "error", err)
		}

		if i < plan.Clicks-1 {
			e.sleep(plan.Delay)
		}
	}

	if failed == plan.Clicks {
		return fmt.Errorf("%d taps at %d,%d: %w", plan.Clicks, plan.Point.X, plan.Point.Y, ErrAllTapsFailed)
	}

	if failed > 0 {
		logger.WarnKV(ctx, "Click sequence completed with failures", "failed", failed, "total", plan.Clicks)

		return nil
	}

	logger.InfoKV(ctx, "Click sequence completed", "clicks", plan.Clicks)

	return nil
}
