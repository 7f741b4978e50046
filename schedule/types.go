/*
Package schedule holds the input-side model for the surcharge engine.

PURPOSE:
  This package contains the raw schedule row type, the time-of-day value
  used throughout the pipeline, and the tolerant free-text parser that
  extracts weekday/time-range blocks from instructor schedule cells.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeOfDay: minutes since midnight, formatted as HH:MM
  - Weekday: the two-letter Spanish day token (LU..DO) used in source text
  - Entry: one raw schedule row (person, plan, text blob, date range)
  - TimeBlock: one parsed {weekday, start, end} triple

DESIGN PRINCIPLES:
  1. Tolerance: malformed input degrades to "no block", never to an error
  2. Immutability: entries are consumed once and never mutated
  3. Plain values: TimeOfDay is an int, cheap to compare and subtract

SEE ALSO:
  - parser.go: Line-oriented text parser producing TimeBlocks
  - surcharge/: Converts TimeBlocks into payable surcharge occurrences
*/
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME OF DAY - Minutes since midnight
// =============================================================================

// TimeOfDay is a clock time expressed as minutes since midnight.
// 18:00 is TimeOfDay(1080). Valid range is [0, 1439].
type TimeOfDay int

// ParseTimeOfDay parses a zero-padded "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time of day %q: want zero-padded HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Hour() int              { return int(t) / 60 }
func (t TimeOfDay) Minute() int            { return int(t) % 60 }
func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t > o }

// Sub returns the difference t - o in minutes. The result is negative
// when o is later in the day than t; no midnight wrap is applied.
func (t TimeOfDay) Sub(o TimeOfDay) int { return int(t) - int(o) }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

// =============================================================================
// WEEKDAY - Two-letter Spanish day token
// =============================================================================

// Weekday is the two-letter day token found in schedule text.
type Weekday string

const (
	Monday    Weekday = "LU"
	Tuesday   Weekday = "MA"
	Wednesday Weekday = "MI"
	Thursday  Weekday = "JU"
	Friday    Weekday = "VI"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "DO"
)

var weekdayFromTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf maps a calendar date to its schedule token.
func WeekdayOf(d time.Time) Weekday { return weekdayFromTime[d.Weekday()] }

// TimeWeekday maps the token back to the standard library weekday.
func (w Weekday) TimeWeekday() time.Weekday {
	for tw, token := range weekdayFromTime {
		if token == w {
			return tw
		}
	}
	return time.Monday
}

// =============================================================================
// INPUT ROW AND PARSED BLOCK
// =============================================================================

// Entry is one raw schedule row as delivered by the ingestion layer.
// ActivityStart/ActivityEnd are dates (midnight UTC); the engine expands
// the recurring weekly text across that inclusive range.
type Entry struct {
	PersonID      string
	PersonName    string
	PlanCode      int
	ScheduleText  string
	ActivityStart time.Time
	ActivityEnd   time.Time
	Activity      string
}

// TimeBlock is one parsed {weekday, start, end} triple from a schedule
// text line. No ordering between Start and End is guaranteed; an End
// earlier than Start yields zero surcharge downstream, never a negative.
type TimeBlock struct {
	Weekday Weekday
	Start   TimeOfDay
	End     TimeOfDay
}
