package schedule

import (
	"regexp"
	"strings"
)

// =============================================================================
// SCHEDULE TEXT PARSER
// =============================================================================
// The source text is a tiny line-oriented language: each line may carry a
// two-letter day token and an HH:MM - HH:MM range, surrounded by arbitrary
// noise (room codes, group labels, "NO TIENE" placeholders). The parser
// scans line by line and emits a tagged result per line; lines without a
// day-plus-range pair are skipped, never rejected.

var (
	dayPattern   = regexp.MustCompile(`\b(LU|MA|MI|JU|VI|SA|DO)\b`)
	rangePattern = regexp.MustCompile(`(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})`)
)

// LineResult is the outcome of scanning a single line: either a matched
// TimeBlock or a skip. Raw keeps the normalized line for diagnostics.
type LineResult struct {
	Raw     string
	Block   TimeBlock
	Matched bool
}

// ScanLine normalizes one line and attempts to extract a TimeBlock.
// A line matches only when it carries both a standalone day token and a
// time range; a day without a range is a deliberate no-op line.
func ScanLine(line string) LineResult {
	norm := strings.ToUpper(strings.TrimSpace(line))
	res := LineResult{Raw: norm}

	day := dayPattern.FindStringSubmatch(norm)
	if day == nil {
		return res
	}

	hours := rangePattern.FindStringSubmatch(norm)
	if hours == nil {
		return res
	}

	start, err := ParseTimeOfDay(hours[1])
	if err != nil {
		return res
	}
	end, err := ParseTimeOfDay(hours[2])
	if err != nil {
		return res
	}

	res.Block = TimeBlock{Weekday: Weekday(day[1]), Start: start, End: end}
	res.Matched = true
	return res
}

// Parse extracts every TimeBlock from a raw schedule text cell.
// Empty or placeholder text yields an empty slice. Repeated identical
// lines yield repeated blocks: they represent distinct schedule slots
// and must not be merged here.
func Parse(text string) []TimeBlock {
	if text == "" {
		return nil
	}

	var blocks []TimeBlock
	for _, line := range strings.Split(text, "\n") {
		if res := ScanLine(line); res.Matched {
			blocks = append(blocks, res.Block)
		}
	}
	return blocks
}
