package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// NTPQuerier queries an NTP server for the authoritative current time.
type NTPQuerier struct {
	// Server is the NTP host to query.
	Server string
	// Timeout bounds the query so start-up never blocks indefinitely.
	Timeout time.Duration
}

// QueryNetworkTime performs a single NTP exchange and returns the current
// network time. The response offset already accounts for round-trip delay.
func (q *NTPQuerier) QueryNetworkTime(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	response, err := ntp.QueryWithOptions(q.Server, ntp.QueryOptions{Timeout: q.Timeout})
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp query %s: %w", q.Server, err)
	}

	if err := response.Validate(); err != nil {
		return time.Time{}, fmt.Errorf("ntp response from %s: %w", q.Server, err)
	}

	return time.Now().Add(response.ClockOffset), nil
}
