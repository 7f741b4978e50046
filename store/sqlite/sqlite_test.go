package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/surcharge-engine/attendance"
	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/store/sqlite"
	"github.com/campus/surcharge-engine/surcharge"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func runFixture(t *testing.T) (engine.Input, *engine.Result) {
	in := engine.Input{
		Schedule: []schedule.Entry{{
			PersonID:      "P001",
			PersonName:    "GARCIA, ANA",
			PlanCode:      120,
			ScheduleText:  "LU 18:00 - 20:00",
			ActivityStart: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			ActivityEnd:   time.Date(2026, time.June, 7, 0, 0, 0, 0, time.UTC),
			Activity:      "CALCULO I",
		}},
		Attendance: []attendance.Record{{
			Date:     time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			PersonID: "P001",
			Role:     "DOCENTE",
			ClockIn:  "17:50",
			ClockOut: "19:00",
		}},
	}

	eng := engine.New(surcharge.DefaultConfig(), holiday.None{}, nil)
	result, err := eng.Run(in)
	require.NoError(t, err)
	return in, result
}

// =============================================================================
// RUN PERSISTENCE TESTS
// =============================================================================

func TestSaveRun_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	in, result := runFixture(t)

	runID, err := store.SaveRun(ctx, in, result)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 1, runs[0].ScheduleRows)
	assert.Equal(t, 1, runs[0].DetailRows)

	detail, err := store.GetDetail(ctx, runID)
	require.NoError(t, err)
	require.Len(t, detail, 1)
	assert.Equal(t, "P001", detail[0].PersonID)
	assert.Equal(t, 120, detail[0].SurchargeMinutes)
	assert.Equal(t, "JUNIO", detail[0].Month)
	assert.Equal(t, "18:00", detail[0].Start.String())

	reconciled, err := store.GetReconciled(ctx, runID)
	require.NoError(t, err)
	require.Len(t, reconciled, 1)
	assert.Equal(t, "01/06/2026-P001", reconciled[0].JoinKey)
	assert.Equal(t, "1", reconciled[0].PayableHours.String())
	assert.Equal(t, "19:00", reconciled[0].ClockOut)
}

func TestGetDetail_UnknownRunIsEmpty(t *testing.T) {
	store := newTestStore(t)

	detail, err := store.GetDetail(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, detail)
}

// =============================================================================
// HOLIDAY OVERRIDE TESTS
// =============================================================================

func TestHolidayOverrides_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)

	id, err := store.AddHoliday(ctx, day, "Día Institucional")
	require.NoError(t, err)

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Día Institucional", holidays[0].Name)
	assert.Equal(t, day, holidays[0].Date)

	hol, err := store.IsHoliday(day)
	require.NoError(t, err)
	assert.True(t, hol)

	hol, err = store.IsHoliday(day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, hol)

	require.NoError(t, store.DeleteHoliday(ctx, id))
	hol, err = store.IsHoliday(day)
	require.NoError(t, err)
	assert.False(t, hol)
}

func TestStore_ComposesWithNationalCalendar(t *testing.T) {
	// An override stored here suppresses surcharge in a run using the
	// composite calendar.
	store := newTestStore(t)
	ctx := context.Background()

	monday := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.AddHoliday(ctx, monday, "Aniversario")
	require.NoError(t, err)

	calendar := holiday.NewComposite(holiday.NewColombia(2000, 2100), store)
	eng := engine.New(surcharge.DefaultConfig(), calendar, nil)

	in, _ := runFixture(t)
	result, err := eng.Run(in)
	require.NoError(t, err)
	assert.Empty(t, result.Detail)
}
