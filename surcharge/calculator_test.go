package surcharge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus/surcharge-engine/schedule"
	"github.com/campus/surcharge-engine/surcharge"
)

func tod(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	v, err := schedule.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

// =============================================================================
// SURCHARGE CALCULATOR TESTS
// =============================================================================

func TestSurchargeMinutes(t *testing.T) {
	cfg := surcharge.DefaultConfig()

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"entirely after threshold", "18:00", "20:00", 120},
		{"straddles threshold", "16:00", "20:00", 120},
		{"entirely before threshold", "08:00", "12:00", 0},
		{"ends exactly at threshold", "16:00", "18:00", 0},
		{"starts exactly at threshold", "18:00", "22:00", 240},
		{"one minute past threshold", "18:00", "18:01", 1},
		{"start before day origin", "05:00", "19:00", 60},
		{"end before start clamps to zero", "20:00", "18:00", 0},
		{"overnight span clamps to zero", "22:00", "02:00", 0},
		{"zero-length window", "19:00", "19:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.SurchargeMinutes(tod(t, tt.start), tod(t, tt.end))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSurchargeMinutes_Monotonicity(t *testing.T) {
	// GIVEN: a fixed start time
	// WHEN: the end time grows minute by minute
	// THEN: surcharge minutes never decrease and never go negative

	cfg := surcharge.DefaultConfig()
	start := tod(t, "16:00")

	prev := 0
	for end := schedule.TimeOfDay(16 * 60); end <= 23*60; end += 15 {
		got := cfg.SurchargeMinutes(start, end)
		require.GreaterOrEqual(t, got, prev)
		require.GreaterOrEqual(t, got, 0)
		prev = got
	}

	// And non-increasing in start for a fixed end.
	end := tod(t, "22:00")
	prev = cfg.SurchargeMinutes(schedule.TimeOfDay(6*60), end)
	for s := schedule.TimeOfDay(6 * 60); s <= 22*60; s += 30 {
		got := cfg.SurchargeMinutes(s, end)
		require.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestSurchargeMinutes_CustomThreshold(t *testing.T) {
	// 22:00 threshold: origin 06:00 + 960 minutes.
	cfg := surcharge.DefaultConfig()
	cfg.ThresholdMinutes = 960

	require.Equal(t, 0, cfg.SurchargeMinutes(tod(t, "18:00"), tod(t, "20:00")))
	require.Equal(t, 60, cfg.SurchargeMinutes(tod(t, "21:00"), tod(t, "23:00")))
}
