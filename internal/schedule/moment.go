package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TargetMoment is a recurring wall-clock time-of-day in a fixed-offset
// timezone, e.g. 23:59:59 at UTC+8. It names no particular day.
type TargetMoment struct {
	// TimezoneOffset is the fixed UTC offset of the target zone.
	TimezoneOffset time.Duration
	// Hour is 0-23 in the target zone.
	Hour int
	// Minute is 0-59.
	Minute int
	// Second is 0-59.
	Second int
}

var (
	// errBadTimeFormat is returned when the time-of-day string is not HH:MM or HH:MM:SS.
	errBadTimeFormat = errors.New("time must be in HH:MM or HH:MM:SS format")
	// errTimeOutOfRange is returned when a time-of-day component is out of range.
	errTimeOutOfRange = errors.New("time-of-day component out of range")
)

// NewTargetMoment builds a TargetMoment from a time-of-day string and a
// timezone offset in hours. The string accepts HH:MM or HH:MM:SS, matching
// the command-line surface.
func NewTargetMoment(timeOfDay string, offsetHours float64) (TargetMoment, error) {
	var moment TargetMoment

	parts := strings.Split(timeOfDay, ":")
	if len(parts) == 2 {
		// HH:MM shorthand, seconds default to zero.
		parts = append(parts, "00")
	}

	if len(parts) != 3 {
		return moment, fmt.Errorf("%q: %w", timeOfDay, errBadTimeFormat)
	}

	components := []*int{&moment.Hour, &moment.Minute, &moment.Second}
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return moment, fmt.Errorf("%q: %w", timeOfDay, errBadTimeFormat)
		}

		*components[i] = value
	}

	if moment.Hour < 0 || moment.Hour > 23 ||
		moment.Minute < 0 || moment.Minute > 59 ||
		moment.Second < 0 || moment.Second > 59 {
		return moment, fmt.Errorf("%q: %w", timeOfDay, errTimeOutOfRange)
	}

	moment.TimezoneOffset = time.Duration(offsetHours * float64(time.Hour))

	return moment, nil
}

// Location returns the fixed-offset zone the moment is expressed in.
func (m TargetMoment) Location() *time.Location {
	offsetSeconds := int(m.TimezoneOffset / time.Second)

	return time.FixedZone(m.zoneName(), offsetSeconds)
}

// String renders the moment as HH:MM:SS plus its zone, for logs.
func (m TargetMoment) String() string {
	return fmt.Sprintf("%02d:%02d:%02d %s", m.Hour, m.Minute, m.Second, m.zoneName())
}

// zoneName renders a GMT-style label like GMT+8 or GMT-3.5.
func (m TargetMoment) zoneName() string {
	hours := m.TimezoneOffset.Hours()
	if hours == math.Trunc(hours) {
		return fmt.Sprintf("GMT%+d", int(hours))
	}

	return fmt.Sprintf("GMT%+.1f", hours)
}
