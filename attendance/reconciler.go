package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

// =============================================================================
// MISSING-VALUE POLICIES
// =============================================================================
// The two reconciliation passes treat a missing clock-out differently:
// the per-event pass zeroes payable hours outright, while the per-day
// pass maps the missing clock-out to a zero duration and zeroes only
// when the schedule end itself is unknown. The divergence is inherited
// behavior; until the payroll office confirms which reading is intended,
// both stay available as named policies rather than being unified.

// MissingPolicy selects how a missing clock-out affects payable hours.
type MissingPolicy int

const (
	// ZeroOnMissingClockOut zeroes payable hours whenever the clock-out
	// is missing. Used by the per-event pass.
	ZeroOnMissingClockOut MissingPolicy = iota

	// ZeroOnMissingScheduleEnd zeroes payable hours only when the
	// scheduled end is missing; a missing clock-out becomes a zero
	// duration, so the resulting large negative difference still clamps
	// payable hours to zero. Used by the per-day pass.
	ZeroOnMissingScheduleEnd
)

var sixty = decimal.NewFromInt(60)

// ComputePayable applies one missing-value policy to a single row and
// returns (difference hours, payable hours). Scheduled is the summed
// surcharge for the day; a negative difference (early departure) reduces
// it, a positive one never increases it, and the result clamps at zero.
func ComputePayable(scheduled decimal.Decimal, schedEnd, clockOut ClockValue, policy MissingPolicy) (decimal.Decimal, decimal.Decimal) {
	switch policy {
	case ZeroOnMissingScheduleEnd:
		if !schedEnd.Present {
			return decimal.Zero, decimal.Zero
		}
		out := schedule.TimeOfDay(0)
		if clockOut.Present {
			out = clockOut.Time
		}
		diff := hoursBetween(schedEnd.Time, out)
		return diff, clampPayable(scheduled, diff)

	default: // ZeroOnMissingClockOut
		diff := decimal.Zero
		if schedEnd.Present && clockOut.Present {
			diff = hoursBetween(schedEnd.Time, clockOut.Time)
		}
		if !clockOut.Present {
			return diff, decimal.Zero
		}
		return diff, clampPayable(scheduled, diff)
	}
}

func hoursBetween(schedEnd, clockOut schedule.TimeOfDay) decimal.Decimal {
	return decimal.NewFromInt(int64(clockOut.Sub(schedEnd))).Div(sixty)
}

func clampPayable(scheduled, diff decimal.Decimal) decimal.Decimal {
	payable := scheduled
	if diff.IsNegative() {
		payable = payable.Add(diff)
	}
	if payable.IsNegative() {
		return decimal.Zero
	}
	return payable
}

// =============================================================================
// RECONCILED ROW
// =============================================================================

// Reconciled is one attendance row joined to its scheduled day. Matched
// is false when no DailySummary shares the join key; such rows keep
// their raw clock fields but cannot earn payable hours.
type Reconciled struct {
	JoinKey  string
	PersonID string
	Date     time.Time
	Role     string
	ClockIn  string
	ClockOut string

	Matched       bool
	EarliestStart schedule.TimeOfDay
	LatestEnd     schedule.TimeOfDay

	ScheduledHours  decimal.Decimal
	DifferenceHours decimal.Decimal
	PayableHours    decimal.Decimal
}

func (r Reconciled) scheduledEnd() ClockValue {
	if !r.Matched {
		return ClockValue{}
	}
	return ClockValue{Time: r.LatestEnd, Present: true}
}

// =============================================================================
// RECONCILIATION PASSES
// =============================================================================

// Reconcile is the per-event pass: it left-joins attendance records to
// daily summaries on the join key, computes the payable adjustment under
// ZeroOnMissingClockOut, and deduplicates colliding keys keeping the
// highest payable row. Zero-row inputs are valid and yield zero rows.
func Reconcile(summaries []surcharge.DailySummary, records []Record) []Reconciled {
	byKey := make(map[string]surcharge.DailySummary, len(summaries))
	for _, s := range summaries {
		byKey[s.JoinKey] = s
	}

	rows := make([]Reconciled, 0, len(records))
	for _, rec := range records {
		row := Reconciled{
			JoinKey:  rec.JoinKey(),
			PersonID: rec.PersonID,
			Date:     rec.Date,
			Role:     rec.Role,
			ClockIn:  rec.ClockIn,
			ClockOut: rec.ClockOut,
		}

		if summary, ok := byKey[row.JoinKey]; ok {
			row.Matched = true
			row.EarliestStart = summary.EarliestStart
			row.LatestEnd = summary.LatestEnd
			row.ScheduledHours = summary.Hours
		} else {
			row.ScheduledHours = decimal.Zero
		}

		row.DifferenceHours, row.PayableHours = ComputePayable(
			row.ScheduledHours, row.scheduledEnd(), ParseClock(rec.ClockOut), ZeroOnMissingClockOut)
		rows = append(rows, row)
	}

	return Dedupe(rows)
}

// Dedupe collapses rows sharing a join key to the single row with the
// greatest payable hours. Duplicate clock events for the same person and
// day (double clock-ins) must produce exactly one payable record, and
// the choice must be deterministic: rows sort by join key, then payable
// descending, and the first of each key survives.
func Dedupe(rows []Reconciled) []Reconciled {
	sorted := make([]Reconciled, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].JoinKey != sorted[j].JoinKey {
			return sorted[i].JoinKey < sorted[j].JoinKey
		}
		return sorted[i].PayableHours.GreaterThan(sorted[j].PayableHours)
	})

	out := sorted[:0]
	var lastKey string
	for _, row := range sorted {
		if row.JoinKey == lastKey && len(out) > 0 {
			continue
		}
		out = append(out, row)
		lastKey = row.JoinKey
	}
	return out
}

// RecomputeDaily is the per-day pass: it re-derives difference and
// payable hours on the deduplicated rows under ZeroOnMissingScheduleEnd,
// reattaching the raw clock fields for reporting. For any row whose
// payable hours were not decided by a dedup tie, both passes agree on
// the final payable value.
func RecomputeDaily(rows []Reconciled) []Reconciled {
	out := make([]Reconciled, len(rows))
	for i, row := range rows {
		recomputed := row
		recomputed.DifferenceHours, recomputed.PayableHours = ComputePayable(
			row.ScheduledHours, row.scheduledEnd(), ParseClock(row.ClockOut), ZeroOnMissingScheduleEnd)
		out[i] = recomputed
	}
	return out
}
