package adb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oshokin/unlock-tapper/internal/logger"
)

const (
	// deviceDumpPath is where uiautomator writes the UI hierarchy on the device.
	deviceDumpPath = "/sdcard/ui_dump.xml"

	// stayOnKey keeps the screen on while the device is plugged in.
	stayOnKey = "stay_on_while_plugged_in"
	// stayOnAll is the settings value enabling stay-on for every charger type.
	stayOnAll = "3"
	// stayOnOff disables the stay-on behavior.
	stayOnOff = "0"

	// screenTimeoutKey is the system screen-off timeout setting.
	screenTimeoutKey = "screen_off_timeout"
	// screenTimeoutMax effectively disables the screen timeout (max int32 ms).
	screenTimeoutMax = "2147483647"
	// screenTimeoutFallback restores a sane minute-long timeout when the
	// original value could not be read.
	screenTimeoutFallback = "60000"
)

// ErrDeviceNotConnected is returned when no authorized device answers adb.
var ErrDeviceNotConnected = errors.New("no device connected")

// Device drives a single Android device over adb.
type Device struct {
	// runner executes adb commands.
	runner CommandRunner

	// savedScreenTimeout holds the screen-off timeout read before
	// stay-awake was enabled, so it can be restored on exit.
	savedScreenTimeout string
}

// NewDevice creates a Device on top of the provided command runner.
func NewDevice(runner CommandRunner) *Device {
	return &Device{
		runner: runner,
	}
}

// IsConnected reports whether an authorized device is attached.
func (d *Device) IsConnected(ctx context.Context) bool {
	state, err := d.runner.Output(ctx, "get-state")
	if err != nil {
		return false
	}

	return state == "device"
}

// SetStayAwake keeps the device screen on while plugged in. The original
// screen timeout is captured first so RestoreScreenTimeout can undo the
// change on exit. Enabling is best-effort: a failed settings write only
// risks the screen sleeping before the deadline.
func (d *Device) SetStayAwake(ctx context.Context, enabled bool) error {
	if !enabled {
		if err := d.runner.Run(ctx, "shell", "settings", "put", "global", stayOnKey, stayOnOff); err != nil {
			return fmt.Errorf("disable stay-awake: %w", err)
		}

		return nil
	}

	original, err := d.runner.Output(ctx, "shell", "settings", "get", "system", screenTimeoutKey)
	if err != nil || !isNumeric(original) {
		original = screenTimeoutFallback
	}

	d.savedScreenTimeout = original

	if err := d.runner.Run(ctx, "shell", "settings", "put", "global", stayOnKey, stayOnAll); err != nil {
		return fmt.Errorf("enable stay-awake: %w", err)
	}

	if err := d.runner.Run(ctx, "shell", "settings", "put", "system", screenTimeoutKey, screenTimeoutMax); err != nil {
		return fmt.Errorf("raise screen timeout: %w", err)
	}

	logger.InfoKV(ctx, "Screen set to stay on", "original_timeout_ms", original)

	return nil
}

// RestoreScreenTimeout puts back the screen timeout captured by
// SetStayAwake and turns the stay-on behavior off. Safe to call even if
// stay-awake was never enabled.
func (d *Device) RestoreScreenTimeout(ctx context.Context) error {
	if d.savedScreenTimeout == "" {
		return nil
	}

	if err := d.runner.Run(ctx, "shell", "settings", "put", "system", screenTimeoutKey, d.savedScreenTimeout); err != nil {
		return fmt.Errorf("restore screen timeout: %w", err)
	}

	if err := d.runner.Run(ctx, "shell", "settings", "put", "global", stayOnKey, stayOnOff); err != nil {
		return fmt.Errorf("disable stay-awake: %w", err)
	}

	logger.InfoKV(ctx, "Restored screen timeout", "timeout_ms", d.savedScreenTimeout)

	return nil
}

// DumpUI captures the current UI hierarchy and returns the raw XML.
func (d *Device) DumpUI(ctx context.Context) ([]byte, error) {
	if err := d.runner.Run(ctx, "shell", "uiautomator", "dump", deviceDumpPath); err != nil {
		return nil, fmt.Errorf("dump ui hierarchy: %w", err)
	}

	contents, err := d.runner.Output(ctx, "exec-out", "cat", deviceDumpPath)
	if err != nil {
		return nil, fmt.Errorf("read ui dump: %w", err)
	}

	return []byte(contents), nil
}

// Tap dispatches a single tap input event at the given screen coordinates.
func (d *Device) Tap(ctx context.Context, x, y int) error {
	if err := d.runner.Run(ctx, "shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y)); err != nil {
		return fmt.Errorf("input tap %d %d: %w", x, y, err)
	}

	return nil
}

// isNumeric reports whether s parses as a base-10 integer.
func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)

	return err == nil
}
