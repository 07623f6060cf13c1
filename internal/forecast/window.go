package forecast

import (
	"fmt"
	"time"
)

// windowStartHour anchors the display window: "tomorrow" begins at 06:00
// local time, and today only counts as past its window once 06:00 has passed.
const windowStartHour = 6

// NextDayBounds computes the [start, end) boundary of the next-day window for
// the given instant in the given IANA timezone. Before 06:00 local the window
// starts at today's 06:00; at 06:00 or later it starts at tomorrow's 06:00.
func NextDayBounds(now time.Time, timeZone string) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("load timezone %q: %w", timeZone, err)
	}

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), windowStartHour, 0, 0, 0, loc)
	if local.Hour() >= windowStartHour {
		start = start.AddDate(0, 0, 1)
	}

	// The end is exactly 24 hours after the start, not the next calendar day's
	// 06:00: across a DST transition those differ, and the window always holds
	// 24 hourly periods.
	end := start.Add(24 * time.Hour)

	return start, end, nil
}

// SelectWindow filters periods to those starting inside the next-day window.
// The lower bound is inclusive, the upper exclusive, and source order is
// preserved. An empty input or an out-of-range series yields an empty result.
func SelectWindow(now time.Time, timeZone string, periods []Period) ([]Period, error) {
	start, end, err := NextDayBounds(now, timeZone)
	if err != nil {
		return nil, err
	}

	var window []Period
	for _, p := range periods {
		if !p.StartTime.Before(start) && p.StartTime.Before(end) {
			window = append(window, p)
		}
	}

	return window, nil
}
