/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal pipeline types from the external contract. Dates cross the
  wire day-first ("02/01/2006") because that is how the scheduling
  office exports them; hours cross as decimal strings to avoid float
  rounding in clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Struct tags are checked with go-playground/validator in the handlers;
  date strings are parsed explicitly because day-first formats are not
  expressible as a tag.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"time"

	"github.com/campus/surcharge-engine/attendance"
	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

const wireDateFormat = "02/01/2006"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ScheduleRowDTO is one raw schedule row as uploaded.
type ScheduleRowDTO struct {
	PersonID      string `json:"personId" validate:"required"`
	PersonName    string `json:"personName"`
	PlanCode      int    `json:"planCode"`
	ScheduleText  string `json:"scheduleText"`
	ActivityStart string `json:"activityStart" validate:"required"`
	ActivityEnd   string `json:"activityEnd" validate:"required"`
	Activity      string `json:"activity"`
}

// AttendanceRowDTO is one raw biometric clock row.
type AttendanceRowDTO struct {
	Date     string `json:"date" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
	Role     string `json:"role"`
	ClockIn  string `json:"clockIn"`
	ClockOut string `json:"clockOut"`
}

// RunRequest is the payload of POST /api/runs.
type RunRequest struct {
	Schedule   []ScheduleRowDTO   `json:"schedule" validate:"required,min=1,dive"`
	Attendance []AttendanceRowDTO `json:"attendance" validate:"omitempty,dive"`
}

// CreateHolidayRequest adds an institution-level holiday override.
type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type OccurrenceDTO struct {
	Date             string `json:"date"`
	Month            string `json:"month"`
	Weekday          string `json:"weekday"`
	PersonID         string `json:"personId"`
	PersonName       string `json:"personName"`
	PlanCode         int    `json:"planCode"`
	Activity         string `json:"activity"`
	Start            string `json:"start"`
	End              string `json:"end"`
	SurchargeMinutes int    `json:"surchargeMinutes"`
	SurchargeHours   string `json:"surchargeHours"`
}

type DailySummaryDTO struct {
	JoinKey       string `json:"joinKey"`
	PersonID      string `json:"personId"`
	PersonName    string `json:"personName"`
	Date          string `json:"date"`
	EarliestStart string `json:"earliestStart"`
	LatestEnd     string `json:"latestEnd"`
	Hours         string `json:"hours"`
}

type ActivityTotalDTO struct {
	PersonName string `json:"personName"`
	Activity   string `json:"activity"`
	Hours      string `json:"hours"`
}

type PersonTotalDTO struct {
	PersonName string `json:"personName"`
	Hours      string `json:"hours"`
}

type ReconciledDTO struct {
	JoinKey         string `json:"joinKey"`
	PersonID        string `json:"personId"`
	Date            string `json:"date"`
	Role            string `json:"role"`
	ClockIn         string `json:"clockIn"`
	ClockOut        string `json:"clockOut"`
	Matched         bool   `json:"matched"`
	EarliestStart   string `json:"earliestStart,omitempty"`
	LatestEnd       string `json:"latestEnd,omitempty"`
	ScheduledHours  string `json:"scheduledHours"`
	DifferenceHours string `json:"differenceHours"`
	PayableHours    string `json:"payableHours"`
}

// RunResponse is the full output of one executed run.
type RunResponse struct {
	ID              string             `json:"id"`
	ScheduleRows    int                `json:"scheduleRows"`
	AttendanceRows  int                `json:"attendanceRows"`
	Detail          []OccurrenceDTO    `json:"detail"`
	Daily           []DailySummaryDTO  `json:"daily"`
	ActivityTotals  []ActivityTotalDTO `json:"activityTotals"`
	PersonTotals    []PersonTotalDTO   `json:"personTotals"`
	Reconciled      []ReconciledDTO    `json:"reconciled"`
	DailyReconciled []ReconciledDTO    `json:"dailyReconciled"`
}

type RunDTO struct {
	ID             string `json:"id"`
	ScheduleRows   int    `json:"scheduleRows"`
	AttendanceRows int    `json:"attendanceRows"`
	DetailRows     int    `json:"detailRows"`
	ReconciledRows int    `json:"reconciledRows"`
	CreatedAt      string `json:"createdAt"`
}

type HolidayDTO struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// MAPPING
// =============================================================================

func (d ScheduleRowDTO) toEntry() (schedule.Entry, error) {
	start, err := time.Parse(wireDateFormat, d.ActivityStart)
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("invalid activityStart %q: %w", d.ActivityStart, err)
	}
	end, err := time.Parse(wireDateFormat, d.ActivityEnd)
	if err != nil {
		return schedule.Entry{}, fmt.Errorf("invalid activityEnd %q: %w", d.ActivityEnd, err)
	}
	return schedule.Entry{
		PersonID:      d.PersonID,
		PersonName:    d.PersonName,
		PlanCode:      d.PlanCode,
		ScheduleText:  d.ScheduleText,
		ActivityStart: start,
		ActivityEnd:   end,
		Activity:      d.Activity,
	}, nil
}

func (d AttendanceRowDTO) toRecord() (attendance.Record, error) {
	date, err := time.Parse(wireDateFormat, d.Date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("invalid attendance date %q: %w", d.Date, err)
	}
	return attendance.Record{
		Date:     date,
		PersonID: d.PersonID,
		Role:     d.Role,
		ClockIn:  d.ClockIn,
		ClockOut: d.ClockOut,
	}, nil
}

func toOccurrenceDTO(occ surcharge.Occurrence) OccurrenceDTO {
	return OccurrenceDTO{
		Date:             occ.Date.Format(wireDateFormat),
		Month:            occ.Month,
		Weekday:          string(occ.Weekday),
		PersonID:         occ.PersonID,
		PersonName:       occ.PersonName,
		PlanCode:         occ.PlanCode,
		Activity:         occ.Activity,
		Start:            occ.Start.String(),
		End:              occ.End.String(),
		SurchargeMinutes: occ.SurchargeMinutes,
		SurchargeHours:   occ.SurchargeHours().String(),
	}
}

func toReconciledDTO(rec attendance.Reconciled) ReconciledDTO {
	dto := ReconciledDTO{
		JoinKey:         rec.JoinKey,
		PersonID:        rec.PersonID,
		Date:            rec.Date.Format(wireDateFormat),
		Role:            rec.Role,
		ClockIn:         rec.ClockIn,
		ClockOut:        rec.ClockOut,
		Matched:         rec.Matched,
		ScheduledHours:  rec.ScheduledHours.String(),
		DifferenceHours: rec.DifferenceHours.String(),
		PayableHours:    rec.PayableHours.String(),
	}
	if rec.Matched {
		dto.EarliestStart = rec.EarliestStart.String()
		dto.LatestEnd = rec.LatestEnd.String()
	}
	return dto
}

func toRunResponse(id string, in engine.Input, result *engine.Result) RunResponse {
	resp := RunResponse{
		ID:             id,
		ScheduleRows:   len(in.Schedule),
		AttendanceRows: len(in.Attendance),
	}

	for _, occ := range result.Detail {
		resp.Detail = append(resp.Detail, toOccurrenceDTO(occ))
	}
	for _, s := range result.Daily {
		resp.Daily = append(resp.Daily, DailySummaryDTO{
			JoinKey:       s.JoinKey,
			PersonID:      s.PersonID,
			PersonName:    s.PersonName,
			Date:          s.Date.Format(wireDateFormat),
			EarliestStart: s.EarliestStart.String(),
			LatestEnd:     s.LatestEnd.String(),
			Hours:         s.Hours.String(),
		})
	}
	for _, t := range result.ActivityTotals {
		resp.ActivityTotals = append(resp.ActivityTotals, ActivityTotalDTO{
			PersonName: t.PersonName, Activity: t.Activity, Hours: t.Hours.String(),
		})
	}
	for _, t := range result.PersonTotals {
		resp.PersonTotals = append(resp.PersonTotals, PersonTotalDTO{
			PersonName: t.PersonName, Hours: t.Hours.String(),
		})
	}
	for _, rec := range result.Reconciled {
		resp.Reconciled = append(resp.Reconciled, toReconciledDTO(rec))
	}
	for _, rec := range result.DailyReconciled {
		resp.DailyReconciled = append(resp.DailyReconciled, toReconciledDTO(rec))
	}
	return resp
}
