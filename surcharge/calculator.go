package surcharge

import "github.com/campus/surcharge-engine/schedule"

// =============================================================================
// SURCHARGE CALCULATOR
// =============================================================================
// Only the portion of a class window at or after the threshold counts as
// surcharge. Times convert to minutes past the day origin (06:00), so a
// start before the origin goes negative and an overnight window produces
// a negative span; both collapse to zero under the final clamp rather
// than being special-cased.

// SurchargeMinutes returns the payable surcharge minutes of one window:
//
//	max(end - max(start, threshold), 0)
//
// measured in minutes past the configured day origin. Monotonic
// non-decreasing in end, non-increasing in start, never negative.
func (c Config) SurchargeMinutes(start, end schedule.TimeOfDay) int {
	startMin := start.Sub(c.DayOrigin)
	endMin := end.Sub(c.DayOrigin)

	from := startMin
	if c.ThresholdMinutes > from {
		from = c.ThresholdMinutes
	}

	minutes := endMin - from
	if minutes < 0 {
		return 0
	}
	return minutes
}
