/*
Package attendance reconciles scheduled surcharge hours against the
biometric clock log.

PURPOSE:
  The schedule says what an instructor was supposed to teach; the clock
  log says when they actually left. This package joins the two by the
  (date, person) key, adjusts payable hours for early departures and
  missing clock-outs, and collapses duplicate clock events into one
  authoritative row per person per day.

MISSING VALUES:
  Clock fields arrive as raw strings and are frequently empty, "0", or a
  literal "no value" placeholder. Those parse to a missing state, which
  is distinct from a readable 00:00 and is never an error: a bad row
  degrades by itself, it does not stop the batch.

TWO PASSES:
  Reconciliation runs twice with deliberately different missing-value
  policies (see reconciler.go). The asymmetry is preserved on purpose;
  both policies are named and independently testable.

SEE ALSO:
  - reconciler.go: Join, payable computation, deduplication
  - surcharge/: Produces the DailySummary rows consumed here
*/
package attendance

import (
	"strings"
	"time"

	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

// =============================================================================
// ATTENDANCE RECORD
// =============================================================================

// Record is one external clock event row. ClockIn/ClockOut stay raw;
// parsing happens at reconciliation time because missing and malformed
// values carry meaning there.
type Record struct {
	Date     time.Time
	PersonID string
	Role     string
	ClockIn  string
	ClockOut string
}

// JoinKey returns the composite key matching this record to a
// DailySummary.
func (r Record) JoinKey() string { return surcharge.JoinKey(r.Date, r.PersonID) }

// =============================================================================
// CLOCK VALUE - Time-of-day with an explicit missing state
// =============================================================================

// ClockValue is a parsed clock field. Missing covers empty strings,
// placeholder sentinels, and unparseable garbage alike; a readable
// "00:00" is present with value zero, not missing.
type ClockValue struct {
	Time    schedule.TimeOfDay
	Present bool
}

var missingSentinels = map[string]bool{
	"":         true,
	"0":        true,
	"NO TIENE": true,
}

// ParseClock parses a raw clock field into a ClockValue. Unparseable
// but non-empty values degrade to missing rather than erroring; a single
// bad row must never abort the batch.
func ParseClock(raw string) ClockValue {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	if missingSentinels[norm] {
		return ClockValue{}
	}

	t, err := schedule.ParseTimeOfDay(norm)
	if err != nil {
		return ClockValue{}
	}
	return ClockValue{Time: t, Present: true}
}
