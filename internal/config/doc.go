// Package config defines tapper settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the adb binary location, the NTP server used for
// clock correction, the target moment (time-of-day plus fixed timezone
// offset) and the precision-waiter tuning knobs. A missing settings file
// yields the built-in defaults so the tool runs without any setup.
package config
