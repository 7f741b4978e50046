package surcharge

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/campus/surcharge-engine/schedule"
)

// =============================================================================
// OCCURRENCE - One dated instance of a weekly block
// =============================================================================

var sixty = decimal.NewFromInt(60)

// HoursFromMinutes converts whole surcharge minutes to decimal hours.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}

// Occurrence is one concrete calendar date produced by expanding a
// schedule block across its course date range. Invariants: Date lies in
// the originating entry's [ActivityStart, ActivityEnd] and Date's
// weekday equals the block's weekday. SurchargeMinutes is zero exactly
// when IsHoliday is true; such occurrences are dropped before output.
type Occurrence struct {
	Date    time.Time
	Month   string
	Weekday schedule.Weekday
	Start   schedule.TimeOfDay
	End     schedule.TimeOfDay

	SurchargeMinutes int
	IsHoliday        bool

	// Metadata inherited from the originating schedule entry.
	PersonID   string
	PersonName string
	PlanCode   int
	Activity   string
}

// SurchargeHours returns the occurrence's payable hours as a decimal.
func (o Occurrence) SurchargeHours() decimal.Decimal {
	return HoursFromMinutes(o.SurchargeMinutes)
}

// =============================================================================
// DAILY SUMMARY - Per-(person, date) rollup
// =============================================================================

// DailySummary aggregates every occurrence a person has on one date.
// JoinKey is the contract the attendance join relies on: unique per
// (person, date) after aggregation.
type DailySummary struct {
	JoinKey       string
	PersonID      string
	PersonName    string
	Date          time.Time
	EarliestStart schedule.TimeOfDay
	LatestEnd     schedule.TimeOfDay
	Hours         decimal.Decimal
}

// JoinKey builds the composite key correlating schedule and attendance
// rows: day-first formatted date, a dash, then the person identifier.
func JoinKey(date time.Time, personID string) string {
	return date.Format("02/01/2006") + "-" + personID
}

// =============================================================================
// PER-ACTIVITY AND PER-PERSON TOTALS
// =============================================================================

// ActivityTotal is summed surcharge hours per (person name, activity).
type ActivityTotal struct {
	PersonName string
	Activity   string
	Hours      decimal.Decimal
}

// PersonTotal is summed surcharge hours per person name.
type PersonTotal struct {
	PersonName string
	Hours      decimal.Decimal
}
