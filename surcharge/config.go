/*
Package surcharge computes payable night-surcharge occurrences from
parsed schedule blocks.

PURPOSE:
  Given a {weekday, start, end} block and the date range of its course,
  this package computes the surcharge minutes of the block, expands the
  weekly recurrence into concrete calendar dates, suppresses holidays and
  blackout windows, and aggregates the survivors per person per day.

KEY CONCEPTS:
  - Config: the thresholds, blackout ranges, and month names that used to
    be scattered literals; passed explicitly so multi-year operation needs
    no code edits
  - Occurrence: one dated instance of a recurring weekly block
  - DailySummary: per-(person, date) rollup carrying the attendance join key

DESIGN PRINCIPLES:
  1. Precision: hours are decimal.Decimal, minutes stay int
  2. Config over literals: threshold, origin, and blackouts are data
  3. Order independence: aggregation results do not depend on input order

SEE ALSO:
  - calculator.go: Window-to-surcharge-minutes rule
  - expander.go: Weekly recurrence expansion with holiday suppression
  - aggregator.go: Per-day rollup and join key construction
*/
package surcharge

import (
	"time"

	"github.com/campus/surcharge-engine/schedule"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the range, boundaries included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Config carries every tunable of the surcharge computation. Values that
// were fixed literals in early versions (18:00 threshold, Holy Week
// blackout) are explicit here so a new year is a config change.
type Config struct {
	// DayOrigin is the reference origin for minute arithmetic. Times are
	// converted to minutes past this origin before thresholding.
	DayOrigin schedule.TimeOfDay

	// ThresholdMinutes is where surcharge begins, in minutes past
	// DayOrigin. 780 past a 06:00 origin is 18:00.
	ThresholdMinutes int

	// Blackouts are date ranges during which no surcharge is payable
	// regardless of schedule (annual recess weeks).
	Blackouts []DateRange

	// MonthNames labels occurrence months on the detail output,
	// January first. Injected rather than read from runtime locale.
	MonthNames [12]string
}

// SpanishMonths is the default month labeling, upper case as the payroll
// office expects it.
var SpanishMonths = [12]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// DefaultConfig returns the production configuration: 06:00 origin,
// surcharge from 18:00, and the 2026 Holy Week recess blacked out.
func DefaultConfig() Config {
	return Config{
		DayOrigin:        schedule.TimeOfDay(6 * 60),
		ThresholdMinutes: 780,
		Blackouts: []DateRange{
			{
				Start: time.Date(2026, time.March, 29, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		MonthNames: SpanishMonths,
	}
}

// InBlackout reports whether d falls inside any configured blackout range.
func (c Config) InBlackout(d time.Time) bool {
	for _, r := range c.Blackouts {
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// MonthName returns the configured label for d's month.
func (c Config) MonthName(d time.Time) string {
	return c.MonthNames[int(d.Month())-1]
}
