package runner

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/unlock-tapper/internal/adb"
	"github.com/oshokin/unlock-tapper/internal/config"
)

// sampleDump contains the unlock button at bounds centered on (540, 1880).
const sampleDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node index="0" text="Apply for unlocking" resource-id="com.mi.global.bbs:id/btnApply" bounds="[140,1800][940,1960]"/>
</hierarchy>`

var errNetworkDown = errors.New("network down")

// fakeDevice is a scripted Device implementation for pipeline tests.
type fakeDevice struct {
	// connected is the answer to IsConnected.
	connected bool
	// dump is the UI hierarchy returned by DumpUI.
	dump string
	// taps records every dispatched tap with its wall-clock moment.
	taps []image.Point
	// tapTimes records when each tap was dispatched.
	tapTimes []time.Time
	// stayAwake tracks SetStayAwake calls.
	stayAwake []bool
	// restored counts RestoreScreenTimeout calls.
	restored int
}

func (d *fakeDevice) IsConnected(context.Context) bool {
	return d.connected
}

func (d *fakeDevice) SetStayAwake(_ context.Context, enabled bool) error {
	d.stayAwake = append(d.stayAwake, enabled)

	return nil
}

func (d *fakeDevice) RestoreScreenTimeout(context.Context) error {
	d.restored++

	return nil
}

func (d *fakeDevice) DumpUI(context.Context) ([]byte, error) {
	return []byte(d.dump), nil
}

func (d *fakeDevice) Tap(_ context.Context, x, y int) error {
	d.taps = append(d.taps, image.Point{X: x, Y: y})
	d.tapTimes = append(d.tapTimes, time.Now())

	return nil
}

// failingQuerier always fails, forcing local-clock fallback.
type failingQuerier struct{}

func (failingQuerier) QueryNetworkTime(context.Context) (time.Time, error) {
	return time.Time{}, errNetworkDown
}

// syntheticNow returns a clock reading that starts at base and advances in
// real time, so the waiter measures genuine elapsed durations.
func syntheticNow(base time.Time) func() time.Time {
	start := time.Now()

	return func() time.Time {
		return base.Add(time.Since(start))
	}
}

// TestRun_EndToEnd_TestMode exercises the whole pipeline against a fake
// device with a synthetic deadline 300ms ahead in GMT+2.
func TestRun_EndToEnd_TestMode(t *testing.T) {
	t.Parallel()

	// 09:59:59.7 UTC is 11:59:59.7 in GMT+2; the target 12:00:00 is 300ms out.
	base := time.Date(2025, time.June, 10, 9, 59, 59, 700000000, time.UTC)
	device := &fakeDevice{connected: true, dump: sampleDump}

	opts := &Options{
		ConfigPath:   filepath.Join(t.TempDir(), "absent.yaml"),
		Clicks:       2,
		Delay:        20 * time.Millisecond,
		Test:         true,
		TestTimezone: 2,
		TestTime:     "12:00:00",
		Device:       device,
		Now:          syntheticNow(base),
	}

	started := time.Now()
	require.NoError(t, Run(context.Background(), opts))

	elapsed := time.Since(started)
	require.GreaterOrEqual(t, elapsed, 300*time.Millisecond)

	require.Equal(t, []image.Point{{X: 540, Y: 1880}, {X: 540, Y: 1880}}, device.taps)
	require.Equal(t, []bool{true}, device.stayAwake)
	require.Equal(t, 1, device.restored)

	// The inter-tap delay separates the two dispatches.
	require.Len(t, device.tapTimes, 2)
	require.GreaterOrEqual(t, device.tapTimes[1].Sub(device.tapTimes[0]), 20*time.Millisecond)
}

// TestRun_LiveModeFallsBackToLocalClock runs the live path with a failing
// time querier and a settings file whose target is just ahead of the
// synthetic clock; the run must complete on the uncorrected clock.
func TestRun_LiveModeFallsBackToLocalClock(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	cfg := config.Default()
	cfg.TargetTime = "12:00:00"
	cfg.TargetTimezoneHours = 8
	require.NoError(t, config.Save(cfgPath, cfg))

	// 03:59:59.8 UTC is 11:59:59.8 in GMT+8; the target is 200ms out.
	base := time.Date(2025, time.June, 10, 3, 59, 59, 800000000, time.UTC)
	device := &fakeDevice{connected: true, dump: sampleDump}

	opts := &Options{
		ConfigPath:  cfgPath,
		Clicks:      1,
		Device:      device,
		TimeQuerier: failingQuerier{},
		Now:         syntheticNow(base),
	}

	require.NoError(t, Run(context.Background(), opts))
	require.Len(t, device.taps, 1)
}

// TestRun_NoDeviceIsFatal aborts before scheduling when nothing is connected.
func TestRun_NoDeviceIsFatal(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{connected: false}

	opts := &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Clicks:     1,
		Device:     device,
	}

	err := Run(context.Background(), opts)
	require.ErrorIs(t, err, adb.ErrDeviceNotConnected)
	require.Empty(t, device.taps)
}

// TestRun_UnresolvableUIIsFatal aborts before the waiter when the target
// element is missing from the dump, still restoring the screen timeout.
func TestRun_UnresolvableUIIsFatal(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{connected: true, dump: "<hierarchy/>"}

	opts := &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		Clicks:     1,
		Device:     device,
	}

	err := Run(context.Background(), opts)
	require.ErrorIs(t, err, adb.ErrElementNotFound)
	require.Empty(t, device.taps)
	require.Equal(t, 1, device.restored)
}

// TestOptions_Validate rejects invalid configurations before scheduling.
func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	var nilOpts *Options

	require.Error(t, nilOpts.Validate())
	require.Error(t, (&Options{Clicks: 0}).Validate())
	require.Error(t, (&Options{Clicks: 2, Delay: -time.Second}).Validate())
	require.Error(t, (&Options{Clicks: 2, Test: true}).Validate())
	require.Error(t, (&Options{Clicks: 2, Test: true, TestTime: "25:00:00"}).Validate())
	require.NoError(t, (&Options{Clicks: 2, Test: true, TestTime: "23:59", TestTimezone: -4}).Validate())
	require.NoError(t, (&Options{Clicks: 2, Delay: time.Second}).Validate())
}
