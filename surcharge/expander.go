package surcharge

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/schedule"
)

// =============================================================================
// CALENDAR EXPANDER
// =============================================================================
// A schedule block is a weekly recurrence: "LU 18:00 - 20:00" between two
// dates means every Monday in that range. Expansion enumerates those
// Mondays, zeroes surcharge on public holidays, and drops zero-surcharge
// and blackout dates. The only error path is the holiday calendar; a
// failed lookup aborts the whole expansion because a wrong holiday answer
// silently corrupts pay.

var rruleWeekdays = map[schedule.Weekday]rrule.Weekday{
	schedule.Monday:    rrule.MO,
	schedule.Tuesday:   rrule.TU,
	schedule.Wednesday: rrule.WE,
	schedule.Thursday:  rrule.TH,
	schedule.Friday:    rrule.FR,
	schedule.Saturday:  rrule.SA,
	schedule.Sunday:    rrule.SU,
}

// Expander expands surcharged blocks into dated occurrences.
type Expander struct {
	Config   Config
	Calendar holiday.Calendar
}

// Expand produces one Occurrence per date in the entry's inclusive
// [ActivityStart, ActivityEnd] range whose weekday matches the block,
// skipping holidays, blackout dates, and zero-surcharge windows. An
// inverted date range yields an empty result, not an error. minutes is
// the block's precomputed surcharge; callers filter zero-minute blocks
// before expansion but a zero here is still handled.
func (e *Expander) Expand(entry schedule.Entry, block schedule.TimeBlock, minutes int) ([]Occurrence, error) {
	if entry.ActivityEnd.Before(entry.ActivityStart) {
		return nil, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   midnightUTC(entry.ActivityStart),
		Until:     midnightUTC(entry.ActivityEnd),
		Byweekday: []rrule.Weekday{rruleWeekdays[block.Weekday]},
	})
	if err != nil {
		return nil, fmt.Errorf("building recurrence for %s: %w", block.Weekday, err)
	}

	var out []Occurrence
	for _, date := range rule.All() {
		isHoliday, err := e.Calendar.IsHoliday(date)
		if err != nil {
			return nil, fmt.Errorf("holiday lookup for %s: %w", date.Format("2006-01-02"), err)
		}

		payable := minutes
		if isHoliday {
			payable = 0
		}
		if payable == 0 {
			continue
		}
		if e.Config.InBlackout(date) {
			continue
		}

		out = append(out, Occurrence{
			Date:             date,
			Month:            e.Config.MonthName(date),
			Weekday:          block.Weekday,
			Start:            block.Start,
			End:              block.End,
			SurchargeMinutes: payable,
			IsHoliday:        isHoliday,
			PersonID:         entry.PersonID,
			PersonName:       entry.PersonName,
			PlanCode:         entry.PlanCode,
			Activity:         entry.Activity,
		})
	}
	return out, nil
}

func midnightUTC(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
