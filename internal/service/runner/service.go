package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/oshokin/unlock-tapper/internal/adb"
	"github.com/oshokin/unlock-tapper/internal/clock"
	"github.com/oshokin/unlock-tapper/internal/config"
	"github.com/oshokin/unlock-tapper/internal/logger"
	"github.com/oshokin/unlock-tapper/internal/schedule"
	"github.com/oshokin/unlock-tapper/internal/trigger"
)

// Options controls a single scheduling run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Clicks is the number of taps fired at the deadline.
	Clicks int
	// Delay is the pause between consecutive taps.
	Delay time.Duration
	// Test switches to the synthetic target built from TestTime and
	// TestTimezone, bypassing network time synchronization.
	Test bool
	// TestTimezone is the synthetic zone offset in hours. Test mode only.
	TestTimezone float64
	// TestTime is the synthetic target time-of-day, HH:MM or HH:MM:SS. Test mode only.
	TestTime string

	// Device overrides the adb-backed device. Nil selects the real one.
	Device Device
	// TimeQuerier overrides the NTP querier. Nil selects the real one.
	TimeQuerier clock.Querier
	// Now overrides the local clock reading. Nil selects time.Now.
	Now func() time.Time
}

// Device is the surface of the connected device the pipeline drives.
// Satisfied by *adb.Device.
type Device interface {
	IsConnected(ctx context.Context) bool
	SetStayAwake(ctx context.Context, enabled bool) error
	RestoreScreenTimeout(ctx context.Context) error
	DumpUI(ctx context.Context) ([]byte, error)
	Tap(ctx context.Context, x, y int) error
}

var (
	// errTestTimeRequired is returned when test mode lacks a target time.
	errTestTimeRequired = errors.New("test time is required in test mode")
	// errOptionsNotSet is returned when nil options are provided.
	errOptionsNotSet = errors.New("options are not set")
)

// Validate rejects option combinations before any scheduling work begins.
func (o *Options) Validate() error {
	if o == nil {
		return errOptionsNotSet
	}

	if err := (trigger.Plan{Clicks: o.Clicks, Delay: o.Delay}).Validate(); err != nil {
		return err
	}

	if o.Test && o.TestTime == "" {
		return errTestTimeRequired
	}

	if o.Test {
		if _, err := schedule.NewTargetMoment(o.TestTime, o.TestTimezone); err != nil {
			return err
		}
	}

	return nil
}

// Run executes the full pipeline: preflight the device, resolve the tap
// point, establish the corrected clock, compute the next deadline, wait
// for it and fire the tap sequence.
//
//nolint:funlen,cyclop // The pipeline is strictly linear; splitting it would obscure the run order.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "unlock-tapper")

	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	device := opts.Device
	if device == nil {
		device = adb.NewDevice(adb.NewRunner(cfg.ADBPath, cfg.DeviceSerial))
	}

	// Preflight: nothing to trigger against without a device.
	if !device.IsConnected(ctx) {
		return adb.ErrDeviceNotConnected
	}

	// Keep the screen on through the wait; put the timeout back on exit.
	if err = device.SetStayAwake(ctx, true); err != nil {
		logger.WarnKV(ctx, "Failed to enable stay-awake", "error", err)
	}

	defer func() {
		if restoreErr := device.RestoreScreenTimeout(ctx); restoreErr != nil {
			logger.WarnKV(ctx, "Failed to restore screen timeout", "error", restoreErr)
		}
	}()

	// Resolve the tap point before scheduling; an undetectable UI is fatal.
	dump, err := device.DumpUI(ctx)
	if err != nil {
		return fmt.Errorf("capture ui dump: %w", err)
	}

	point, err := adb.FindTapPoint(dump, cfg.ButtonText, cfg.ButtonResourceID)
	if err != nil {
		return fmt.Errorf("resolve tap point: %w", err)
	}

	logger.InfoKV(ctx, "Resolved tap point", "x", point.X, "y", point.Y)

	clk := buildClock(ctx, opts, cfg)

	target, err := targetMoment(opts, cfg)
	if err != nil {
		return err
	}

	deadline := schedule.NextDeadline(clk.Now(), target)

	logger.InfoKV(ctx, "Scheduled trigger",
		"target", target.String(),
		"deadline", deadline.In(target.Location()).Format(time.RFC3339),
		"wait", deadline.Sub(clk.Now()).Truncate(time.Millisecond).String(),
	)

	waiter := schedule.NewWaiter(clk.Now)
	waiter.CoarseThreshold = cfg.CoarseThreshold
	waiter.CoarseInterval = cfg.CoarseInterval
	waiter.PollInterval = cfg.PollInterval
	waiter.OnProgress = newCountdown()

	overshoot, err := waiter.WaitUntil(ctx, deadline)
	if err != nil {
		return fmt.Errorf("wait for deadline: %w", err)
	}

	fireTime := clk.Now().In(target.Location())
	color.Green("Firing %d tap(s) at (%d, %d) at %s (overshoot %s)",
		opts.Clicks, point.X, point.Y,
		fireTime.Format("15:04:05.000"), overshoot.Truncate(time.Microsecond))

	plan := trigger.Plan{
		Clicks: opts.Clicks,
		Delay:  opts.Delay,
		Point:  point,
	}

	if err = trigger.NewExecutor(device).Fire(ctx, plan); err != nil {
		return fmt.Errorf("fire trigger plan: %w", err)
	}

	return nil
}

// buildClock establishes the run's time reference. Live runs synchronize
// once against NTP and degrade to the local clock on failure; test runs
// skip synchronization entirely.
func buildClock(ctx context.Context, opts *Options, cfg *config.Config) *clock.Clock {
	clk := clock.New()
	if opts.Now != nil {
		clk = clock.NewWithNow(opts.Now)
	}

	if opts.Test {
		logger.Info(ctx, "Test mode: using local clock without synchronization")

		return clk
	}

	querier := opts.TimeQuerier
	if querier == nil {
		querier = &clock.NTPQuerier{
			Server:  cfg.NTPServer,
			Timeout: cfg.NTPTimeout,
		}
	}

	if err := clk.Sync(ctx, querier); err != nil {
		logger.WarnKV(ctx, "Time synchronization failed, continuing with local clock", "error", err)
	}

	ref := clk.Reference()

	logger.InfoKV(ctx, "Time reference established",
		"source", string(ref.Source),
		"offset", ref.Offset.Truncate(time.Microsecond).String(),
	)

	return clk
}

// targetMoment builds the recurring target from test flags or settings.
func targetMoment(opts *Options, cfg *config.Config) (schedule.TargetMoment, error) {
	if opts.Test {
		return schedule.NewTargetMoment(opts.TestTime, opts.TestTimezone)
	}

	return schedule.NewTargetMoment(cfg.TargetTime, cfg.TargetTimezoneHours)
}

// newCountdown returns a progress callback printing the remaining wait at
// most once per second.
func newCountdown() func(time.Duration) {
	cyan := color.New(color.FgCyan)

	var lastPrinted time.Duration

	return func(remaining time.Duration) {
		rounded := remaining.Truncate(time.Second)
		if rounded == lastPrinted {
			return
		}

		lastPrinted = rounded

		_, _ = cyan.Printf("%s remaining\n", rounded)
	}
}
