package surcharge

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAILY AGGREGATOR
// =============================================================================

// Aggregate groups occurrences by (person id, date) and rolls each group
// up into one DailySummary: earliest start, latest end, summed hours.
// Activity labels are intentionally dropped at this level; per-activity
// totals come from ActivityTotals instead. The result is independent of
// input order and sorted by join key for stable output.
func Aggregate(occurrences []Occurrence) []DailySummary {
	groups := make(map[string]*DailySummary)

	for _, occ := range occurrences {
		key := JoinKey(occ.Date, occ.PersonID)
		summary, ok := groups[key]
		if !ok {
			groups[key] = &DailySummary{
				JoinKey:       key,
				PersonID:      occ.PersonID,
				PersonName:    occ.PersonName,
				Date:          occ.Date,
				EarliestStart: occ.Start,
				LatestEnd:     occ.End,
				Hours:         occ.SurchargeHours(),
			}
			continue
		}

		if occ.Start.Before(summary.EarliestStart) {
			summary.EarliestStart = occ.Start
		}
		if occ.End.After(summary.LatestEnd) {
			summary.LatestEnd = occ.End
		}
		summary.Hours = summary.Hours.Add(occ.SurchargeHours())
	}

	out := make([]DailySummary, 0, len(groups))
	for _, summary := range groups {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinKey < out[j].JoinKey })
	return out
}

// ActivityTotals sums surviving surcharge hours per (person name,
// activity label), sorted by name then activity.
func ActivityTotals(occurrences []Occurrence) []ActivityTotal {
	type key struct{ name, activity string }
	totals := make(map[key]decimal.Decimal)

	for _, occ := range occurrences {
		k := key{occ.PersonName, occ.Activity}
		totals[k] = totals[k].Add(occ.SurchargeHours())
	}

	out := make([]ActivityTotal, 0, len(totals))
	for k, hours := range totals {
		out = append(out, ActivityTotal{PersonName: k.name, Activity: k.activity, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PersonName != out[j].PersonName {
			return out[i].PersonName < out[j].PersonName
		}
		return out[i].Activity < out[j].Activity
	})
	return out
}

// PersonTotals sums surviving surcharge hours per person name, sorted.
func PersonTotals(occurrences []Occurrence) []PersonTotal {
	totals := make(map[string]decimal.Decimal)

	for _, occ := range occurrences {
		totals[occ.PersonName] = totals[occ.PersonName].Add(occ.SurchargeHours())
	}

	out := make([]PersonTotal, 0, len(totals))
	for name, hours := range totals {
		out = append(out, PersonTotal{PersonName: name, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonName < out[j].PersonName })
	return out
}
