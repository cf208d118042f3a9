package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds device, time-sync and scheduling parameters for the tapper.
type Config struct {
	// ADBPath is the adb executable invoked for every device operation.
	ADBPath string `yaml:"adb_path"`
	// DeviceSerial selects a device when several are attached. Optional.
	DeviceSerial string `yaml:"device_serial,omitempty"`
	// NTPServer is the host queried once at start-up for authoritative time.
	NTPServer string `yaml:"ntp_server"`
	// NTPTimeout bounds the network time query so start-up never hangs.
	NTPTimeout time.Duration `yaml:"ntp_timeout"`
	// TargetTime is the wall-clock moment to fire at, "HH:MM:SS" in the target zone.
	TargetTime string `yaml:"target_time"`
	// TargetTimezoneHours is the fixed UTC offset of the target zone, in hours.
	TargetTimezoneHours float64 `yaml:"target_timezone_hours"`
	// ButtonText is the label of the UI element to tap.
	ButtonText string `yaml:"button_text"`
	// ButtonResourceID is tried when no element matches ButtonText.
	ButtonResourceID string `yaml:"button_resource_id"`
	// CoarseThreshold is the remaining duration below which the waiter
	// stops sleeping in coarse steps and starts fine polling.
	CoarseThreshold time.Duration `yaml:"coarse_threshold"`
	// CoarseInterval is the sleep step used far from the deadline.
	CoarseInterval time.Duration `yaml:"coarse_interval"`
	// PollInterval is the fine polling step near the deadline.
	PollInterval time.Duration `yaml:"poll_interval"`
}

const (
	// DefaultConfigFilename is the default filename for tapper settings.
	DefaultConfigFilename = "unlock-tapper-settings.yaml"

	// DefaultADBPath assumes adb is resolvable via PATH.
	DefaultADBPath = "adb"

	// DefaultNTPServer is the public pool queried for authoritative time.
	DefaultNTPServer = "pool.ntp.org"

	// DefaultNTPTimeout is the default bound on the network time query.
	DefaultNTPTimeout = 5 * time.Second

	// DefaultTargetTime is one second before the daily quota reset.
	DefaultTargetTime = "23:59:59"

	// DefaultTargetTimezoneHours is Beijing time, where the quota resets.
	DefaultTargetTimezoneHours = 8

	// DefaultButtonText is the label of the unlock request button.
	DefaultButtonText = "Apply for unlocking"

	// DefaultButtonResourceID is the fallback identifier of the unlock button.
	DefaultButtonResourceID = "com.mi.global.bbs:id/btnApply"

	// DefaultCoarseThreshold switches the waiter to fine polling 5 s out.
	DefaultCoarseThreshold = 5 * time.Second

	// DefaultCoarseInterval is the sleep step while far from the deadline.
	DefaultCoarseInterval = 500 * time.Millisecond

	// DefaultPollInterval is the fine polling step near the deadline.
	DefaultPollInterval = 20 * time.Millisecond

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errCoarseBelowPoll is returned when the coarse threshold does not
	// leave room for at least one fine polling step.
	errCoarseBelowPoll = errors.New("coarse threshold must exceed poll interval")
)

// Default returns a configuration with every field set to its default value.
func Default() *Config {
	return &Config{
		ADBPath:             DefaultADBPath,
		NTPServer:           DefaultNTPServer,
		NTPTimeout:          DefaultNTPTimeout,
		TargetTime:          DefaultTargetTime,
		TargetTimezoneHours: DefaultTargetTimezoneHours,
		ButtonText:          DefaultButtonText,
		ButtonResourceID:    DefaultButtonResourceID,
		CoarseThreshold:     DefaultCoarseThreshold,
		CoarseInterval:      DefaultCoarseInterval,
		PollInterval:        DefaultPollInterval,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are returned so the tool runs
// out of the box, matching the zero-setup behavior of the original script.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ADBPath == "" {
		cfg.ADBPath = DefaultADBPath
	}

	if cfg.NTPServer == "" {
		cfg.NTPServer = DefaultNTPServer
	}

	if cfg.NTPTimeout <= 0 {
		cfg.NTPTimeout = DefaultNTPTimeout
	}

	if cfg.TargetTime == "" {
		cfg.TargetTime = DefaultTargetTime
	}

	if cfg.ButtonText == "" {
		cfg.ButtonText = DefaultButtonText
	}

	if cfg.CoarseThreshold <= 0 {
		cfg.CoarseThreshold = DefaultCoarseThreshold
	}

	if cfg.CoarseInterval <= 0 {
		cfg.CoarseInterval = DefaultCoarseInterval
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.CoarseThreshold <= cfg.PollInterval {
		return errCoarseBelowPoll
	}

	return nil
}
