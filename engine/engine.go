/*
Package engine wires the surcharge pipeline into a single batch run.

PURPOSE:
  One call transforms a full schedule table (plus an optional attendance
  table) into the four output tables: dated occurrence detail, per-activity
  totals, per-person totals, and the reconciled payable rows.

PIPELINE:
  schedule rows -> text parser -> surcharge calculator -> calendar
  expander (holiday calendar) -> daily aggregator -> attendance
  reconciler (two passes)

FAILURE MODEL:
  Row-level anomalies (unparseable lines, missing clock fields) degrade
  silently and are logged at debug level. The single hard failure is a
  holiday calendar error: the run aborts before producing any output
  table, never a partial one.

SEE ALSO:
  - schedule/, surcharge/, attendance/: Stage implementations
  - api/: HTTP surface executing runs and persisting results
*/
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/campus/surcharge-engine/attendance"
	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

// Input is one batch: the schedule table and the optional attendance
// table. The ingestion layer has already applied upstream filters
// (placeholder plan codes, "NO TIENE" cells survive but parse to nothing).
type Input struct {
	Schedule   []schedule.Entry
	Attendance []attendance.Record
}

// Result carries every output table of a run. Reconciled holds the
// per-event pass after deduplication; DailyReconciled the per-day
// recomputation used for reporting.
type Result struct {
	Detail          []surcharge.Occurrence
	Daily           []surcharge.DailySummary
	ActivityTotals  []surcharge.ActivityTotal
	PersonTotals    []surcharge.PersonTotal
	Reconciled      []attendance.Reconciled
	DailyReconciled []attendance.Reconciled
}

// Engine runs the surcharge pipeline. Construct with New; the zero value
// is not usable.
type Engine struct {
	config   surcharge.Config
	expander *surcharge.Expander
	logger   *zap.Logger
}

// New creates an engine with the given configuration and holiday
// calendar. A nil logger disables logging.
func New(cfg surcharge.Config, calendar holiday.Calendar, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:   cfg,
		expander: &surcharge.Expander{Config: cfg, Calendar: calendar},
		logger:   logger,
	}
}

// Run executes one batch. It returns an error only for hard failures
// (holiday calendar out of range or unavailable); every other anomaly
// degrades row by row. Empty inputs produce empty, valid outputs.
func (e *Engine) Run(in Input) (*Result, error) {
	var occurrences []surcharge.Occurrence

	for _, entry := range in.Schedule {
		blocks := schedule.Parse(entry.ScheduleText)
		if len(blocks) == 0 {
			e.logger.Debug("schedule text yielded no blocks",
				zap.String("person", entry.PersonID),
				zap.String("activity", entry.Activity))
			continue
		}

		for _, block := range blocks {
			minutes := e.config.SurchargeMinutes(block.Start, block.End)
			if minutes == 0 {
				continue
			}

			occs, err := e.expander.Expand(entry, block, minutes)
			if err != nil {
				return nil, fmt.Errorf("expanding %s %s for person %s: %w",
					block.Weekday, block.Start, entry.PersonID, err)
			}
			occurrences = append(occurrences, occs...)
		}
	}

	result := &Result{
		Detail:         occurrences,
		Daily:          surcharge.Aggregate(occurrences),
		ActivityTotals: surcharge.ActivityTotals(occurrences),
		PersonTotals:   surcharge.PersonTotals(occurrences),
	}

	if len(in.Attendance) > 0 {
		result.Reconciled = attendance.Reconcile(result.Daily, in.Attendance)
		result.DailyReconciled = attendance.RecomputeDaily(result.Reconciled)
	}

	e.logger.Info("surcharge run complete",
		zap.Int("schedule_rows", len(in.Schedule)),
		zap.Int("occurrences", len(result.Detail)),
		zap.Int("daily_summaries", len(result.Daily)),
		zap.Int("reconciled_rows", len(result.Reconciled)))

	return result, nil
}
