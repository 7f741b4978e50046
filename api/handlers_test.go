package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/surcharge-engine/api"
	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/store/sqlite"
	"github.com/campus/surcharge-engine/surcharge"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	national := holiday.NewColombia(2000, 2100)
	calendar := holiday.NewComposite(national, store)
	eng := engine.New(surcharge.DefaultConfig(), calendar, nil)

	handler := api.NewHandler(store, eng, national, nil)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func runPayload() api.RunRequest {
	return api.RunRequest{
		Schedule: []api.ScheduleRowDTO{{
			PersonID:      "P001",
			PersonName:    "GARCIA, ANA",
			PlanCode:      120,
			ScheduleText:  "LU 18:00 - 20:00",
			ActivityStart: "01/06/2026",
			ActivityEnd:   "07/06/2026",
			Activity:      "CALCULO I",
		}},
		Attendance: []api.AttendanceRowDTO{{
			Date:     "01/06/2026",
			PersonID: "P001",
			Role:     "DOCENTE",
			ClockIn:  "17:50",
			ClockOut: "19:00",
		}},
	}
}

// =============================================================================
// RUN ENDPOINT TESTS
// =============================================================================

func TestCreateRun_FullPipeline(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/runs", runPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var run api.RunResponse
	decode(t, resp, &run)

	assert.NotEmpty(t, run.ID)
	require.Len(t, run.Detail, 1)
	assert.Equal(t, "01/06/2026", run.Detail[0].Date)
	assert.Equal(t, "2", run.Detail[0].SurchargeHours)
	assert.Equal(t, "JUNIO", run.Detail[0].Month)

	require.Len(t, run.Reconciled, 1)
	assert.Equal(t, "1", run.Reconciled[0].PayableHours)
	require.Len(t, run.DailyReconciled, 1)
	assert.Equal(t, "1", run.DailyReconciled[0].PayableHours)
}

func TestCreateRun_FiltersPlaceholderPlanCode(t *testing.T) {
	server := newTestServer(t)

	payload := runPayload()
	payload.Schedule[0].PlanCode = 800
	payload.Attendance = nil

	resp := postJSON(t, server.URL+"/api/runs", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var run api.RunResponse
	decode(t, resp, &run)
	assert.Empty(t, run.Detail)
}

func TestCreateRun_RejectsMalformedDates(t *testing.T) {
	server := newTestServer(t)

	payload := runPayload()
	payload.Schedule[0].ActivityStart = "2026-06-01" // not day-first

	resp := postJSON(t, server.URL+"/api/runs", payload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRun_RejectsEmptySchedule(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/runs", api.RunRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRun_OutOfRangeYearIsUnprocessable(t *testing.T) {
	server := newTestServer(t)

	payload := runPayload()
	payload.Schedule[0].ActivityStart = "01/06/2150"
	payload.Schedule[0].ActivityEnd = "07/06/2150"

	resp := postJSON(t, server.URL+"/api/runs", payload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRunResults_PersistAcrossRequests(t *testing.T) {
	server := newTestServer(t)

	var run api.RunResponse
	decode(t, postJSON(t, server.URL+"/api/runs", runPayload()), &run)

	resp, err := http.Get(server.URL + "/api/runs/" + run.ID + "/detail")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail []api.OccurrenceDTO
	decode(t, resp, &detail)
	require.Len(t, detail, 1)
	assert.Equal(t, "P001", detail[0].PersonID)

	resp, err = http.Get(server.URL + "/api/runs/" + run.ID + "/reconciled")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reconciled []api.ReconciledDTO
	decode(t, resp, &reconciled)
	require.Len(t, reconciled, 1)
	assert.Equal(t, "1", reconciled[0].PayableHours)
}

func TestGetRunDetail_UnknownRunIs404(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/runs/no-such-run/detail")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// HOLIDAY ENDPOINT TESTS
// =============================================================================

func TestHolidayOverride_AffectsSubsequentRuns(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/holidays", api.CreateHolidayRequest{
		Date: "2026-06-01",
		Name: "Día Institucional",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var run api.RunResponse
	decode(t, postJSON(t, server.URL+"/api/runs", runPayload()), &run)
	assert.Empty(t, run.Detail)
}

func TestNationalHolidays_ListsYear(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/holidays/national/2026")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var holidays []api.HolidayDTO
	decode(t, resp, &holidays)
	assert.Len(t, holidays, 18)
	assert.Equal(t, "2026-01-01", holidays[0].Date)
}

func TestNationalHolidays_OutOfRangeYear(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/holidays/national/1800")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
