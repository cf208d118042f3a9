package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/unlock-tapper/internal/config"
	"github.com/oshokin/unlock-tapper/internal/logger"
	"github.com/oshokin/unlock-tapper/internal/service/runner"
	"github.com/oshokin/unlock-tapper/internal/trigger"
	"github.com/oshokin/unlock-tapper/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// clicks is the number of taps fired at the deadline.
	clicks int
	// delaySeconds is the pause between consecutive taps, in seconds.
	delaySeconds float64
	// testMode switches to a synthetic target for end-to-end validation.
	testMode bool
	// testTimezone is the synthetic zone offset in hours.
	testTimezone float64
	// testTime is the synthetic target time-of-day.
	testTime string
	// logLevel sets the minimum level for console output.
	logLevel string

	// errTestTimezoneRequired mirrors the flag contract of the original tool.
	errTestTimezoneRequired = errors.New("--test-timezone is required when using --test")
	// errTestTimeRequired mirrors the flag contract of the original tool.
	errTestTimeRequired = errors.New("--test-time is required when using --test")

	// rootCmd represents the base command scheduling the tap sequence.
	rootCmd = &cobra.Command{
		Use:   "unlock-tapper",
		Short: "Tap the unlock button at the exact quota-reset moment.",
		Long: `Schedules simulated taps on a connected Android device at a precise wall-clock moment.

The daily unlock quota resets at a fixed time in a fixed timezone (23:59:59 Beijing
time by default) and a human cannot reliably hit that instant. The tool corrects the
local clock against an NTP server once at start-up, resolves the unlock button from
the device's UI hierarchy, waits for the next occurrence of the target moment and
fires the configured tap sequence over ADB.

Test mode replaces the target with --test-timezone/--test-time so the full pipeline
can be validated against a near-future synthetic deadline without waiting a day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			if testMode {
				if !cmd.Flags().Changed("test-timezone") {
					return errTestTimezoneRequired
				}

				if testTime == "" {
					return errTestTimeRequired
				}
			}

			return runner.Run(ctx, &runner.Options{
				ConfigPath:   configPath,
				Clicks:       clicks,
				Delay:        time.Duration(delaySeconds * float64(time.Second)),
				Test:         testMode,
				TestTimezone: testTimezone,
				TestTime:     testTime,
			})
		},
	}
)

// Execute runs the unlock-tapper CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	attachInitConfigCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().IntVar(&clicks, "clicks", trigger.DefaultClicks, "number of taps to fire")
	rootCmd.Flags().Float64Var(&delaySeconds, "delay", trigger.DefaultDelay.Seconds(), "delay between taps in seconds")
	rootCmd.Flags().BoolVar(&testMode, "test", false, "run against a synthetic target moment")
	rootCmd.Flags().Float64Var(&testTimezone, "test-timezone", 0, "timezone offset in hours for test mode")
	rootCmd.Flags().StringVar(&testTime, "test-time", "", "target time for test mode, HH:MM or HH:MM:SS")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
}
