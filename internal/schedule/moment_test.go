package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewTargetMoment parses valid inputs including the HH:MM shorthand
// and fractional timezone offsets.
func TestNewTargetMoment(t *testing.T) {
	t.Parallel()

	m, err := NewTargetMoment("23:59:59", 8)
	require.NoError(t, err)
	require.Equal(t, 23, m.Hour)
	require.Equal(t, 59, m.Minute)
	require.Equal(t, 59, m.Second)
	require.Equal(t, 8*time.Hour, m.TimezoneOffset)
	require.Equal(t, "23:59:59 GMT+8", m.String())

	m, err = NewTargetMoment("07:30", -3.5)
	require.NoError(t, err)
	require.Equal(t, 7, m.Hour)
	require.Equal(t, 30, m.Minute)
	require.Zero(t, m.Second)
	require.Equal(t, "07:30:00 GMT-3.5", m.String())

	// Location carries the fixed offset.
	_, offsetSeconds := time.Now().In(m.Location()).Zone()
	require.Equal(t, int(-3.5*3600), offsetSeconds)
}

// TestNewTargetMoment_Invalid rejects malformed and out-of-range inputs.
func TestNewTargetMoment_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "12", "1:2:3:4", "aa:bb:cc", "24:00:00", "12:60:00", "12:00:60", "-1:00:00"} {
		_, err := NewTargetMoment(input, 0)
		require.Error(t, err, "input %q", input)
	}
}
