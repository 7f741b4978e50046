package holiday_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/surcharge-engine/holiday"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// COLOMBIA CALENDAR TESTS
// =============================================================================

func TestColombia_FixedDates(t *testing.T) {
	cal := holiday.NewColombia(2000, 2100)

	for _, d := range []time.Time{
		date(2026, time.January, 1),
		date(2026, time.May, 1),
		date(2026, time.July, 20),
		date(2026, time.August, 7),
		date(2026, time.December, 8),
		date(2026, time.December, 25),
	} {
		hol, err := cal.IsHoliday(d)
		require.NoError(t, err)
		assert.True(t, hol, "%s should be a holiday", d.Format("2006-01-02"))
	}
}

func TestColombia_EmilianiShiftsToMonday(t *testing.T) {
	cal := holiday.NewColombia(2000, 2100)

	// Epiphany 2026 falls on Tuesday Jan 6; observed Monday Jan 12.
	hol, err := cal.IsHoliday(date(2026, time.January, 6))
	require.NoError(t, err)
	assert.False(t, hol)

	hol, err = cal.IsHoliday(date(2026, time.January, 12))
	require.NoError(t, err)
	assert.True(t, hol)

	// Día de la Raza 2026 falls on Monday Oct 12 and stays put.
	hol, err = cal.IsHoliday(date(2026, time.October, 12))
	require.NoError(t, err)
	assert.True(t, hol)
}

func TestColombia_EasterRelativeDates(t *testing.T) {
	// Easter 2026 is April 5.
	cal := holiday.NewColombia(2000, 2100)

	for _, d := range []time.Time{
		date(2026, time.April, 2),  // Jueves Santo
		date(2026, time.April, 3),  // Viernes Santo
		date(2026, time.May, 18),   // Ascensión (Monday)
		date(2026, time.June, 8),   // Corpus Christi (Monday)
		date(2026, time.June, 15),  // Sagrado Corazón (Monday)
	} {
		hol, err := cal.IsHoliday(d)
		require.NoError(t, err)
		assert.True(t, hol, "%s should be a holiday", d.Format("2006-01-02"))
	}

	// Easter Sunday itself is not a national holiday.
	hol, err := cal.IsHoliday(date(2026, time.April, 5))
	require.NoError(t, err)
	assert.False(t, hol)
}

func TestColombia_OrdinaryDaysAreNotHolidays(t *testing.T) {
	cal := holiday.NewColombia(2000, 2100)

	for _, d := range []time.Time{
		date(2026, time.February, 10),
		date(2026, time.June, 1),
		date(2026, time.September, 15),
	} {
		hol, err := cal.IsHoliday(d)
		require.NoError(t, err)
		assert.False(t, hol, "%s should not be a holiday", d.Format("2006-01-02"))
	}
}

func TestColombia_YearOutOfRangeIsFatal(t *testing.T) {
	cal := holiday.NewColombia(2020, 2030)

	_, err := cal.IsHoliday(date(1999, time.January, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, holiday.ErrYearOutOfRange)

	var rangeErr *holiday.YearOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 1999, rangeErr.Year)
	assert.Equal(t, 2020, rangeErr.MinYear)
}

func TestColombia_Holidays_SortedAndComplete(t *testing.T) {
	cal := holiday.NewColombia(2000, 2100)

	holidays, err := cal.Holidays(2026)
	require.NoError(t, err)

	// 6 fixed + 7 Emiliani + 5 Easter-relative = 18, assuming no overlap.
	assert.Len(t, holidays, 18)
	for i := 1; i < len(holidays); i++ {
		assert.True(t, holidays[i-1].Date.Before(holidays[i].Date))
	}
	assert.Equal(t, "Año Nuevo", holidays[0].Name)
}

// =============================================================================
// COMPOSITE CALENDAR TESTS
// =============================================================================

type fixedDate struct{ day time.Time }

func (f fixedDate) IsHoliday(d time.Time) (bool, error) { return d.Equal(f.day), nil }

func TestComposite_AnyMemberWins(t *testing.T) {
	override := fixedDate{day: date(2026, time.June, 1)}
	cal := holiday.NewComposite(holiday.None{}, override)

	hol, err := cal.IsHoliday(date(2026, time.June, 1))
	require.NoError(t, err)
	assert.True(t, hol)

	hol, err = cal.IsHoliday(date(2026, time.June, 2))
	require.NoError(t, err)
	assert.False(t, hol)
}

func TestComposite_PropagatesErrors(t *testing.T) {
	narrow := holiday.NewColombia(2026, 2026)
	cal := holiday.NewComposite(narrow)

	_, err := cal.IsHoliday(date(2031, time.January, 1))
	assert.ErrorIs(t, err, holiday.ErrYearOutOfRange)
}
