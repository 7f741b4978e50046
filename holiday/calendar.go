/*
Package holiday provides public-holiday lookup for the surcharge engine.

PURPOSE:
  Surcharge is never payable on a public holiday, so calendar expansion
  must ask "is this date a holiday" for every candidate occurrence. This
  package defines the Calendar interface the engine consumes, a national
  calendar for Colombia, and a composite that overlays institution-level
  holidays on top of the national table.

ERROR MODEL:
  A Calendar lookup is total within its supported year range. A lookup
  outside that range is the engine's only hard failure: without a holiday
  determination the surcharge cannot be computed correctly, so the error
  must propagate and abort the run rather than degrade row by row.

SEE ALSO:
  - colombia.go: National calendar (fixed, Emiliani-shifted, Easter-based)
  - store/sqlite: Institution-level holiday overrides backed by SQLite
*/
package holiday

import (
	"errors"
	"fmt"
	"time"
)

// Calendar answers whether a date is a public holiday. Lookups are
// deterministic and must never fail for dates inside the supported
// year range.
type Calendar interface {
	IsHoliday(date time.Time) (bool, error)
}

// ErrYearOutOfRange is returned when a date falls outside the years a
// calendar can answer for. Use with errors.Is().
var ErrYearOutOfRange = errors.New("year outside supported holiday range")

// YearOutOfRangeError carries the offending year and the supported range.
type YearOutOfRangeError struct {
	Year    int
	MinYear int
	MaxYear int
}

func (e *YearOutOfRangeError) Error() string {
	return fmt.Sprintf("year %d outside supported holiday range [%d, %d]", e.Year, e.MinYear, e.MaxYear)
}

func (e *YearOutOfRangeError) Unwrap() error { return ErrYearOutOfRange }

// Composite combines calendars: a date is a holiday if any member says so.
// Errors propagate immediately; a partial answer is worse than none.
type Composite struct {
	Calendars []Calendar
}

func NewComposite(calendars ...Calendar) *Composite {
	return &Composite{Calendars: calendars}
}

func (c *Composite) IsHoliday(date time.Time) (bool, error) {
	for _, cal := range c.Calendars {
		hol, err := cal.IsHoliday(date)
		if err != nil {
			return false, err
		}
		if hol {
			return true, nil
		}
	}
	return false, nil
}

// None is a calendar with no holidays, for tests and disabled setups.
type None struct{}

func (None) IsHoliday(date time.Time) (bool, error) { return false, nil }
