package analytics

import (
	"math"
	"time"
)

// FunnelConversion is count-at-stage over total as a percentage. A zero
// total yields 0, not NaN.
func FunnelConversion(stageCount, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(stageCount) / float64(total) * 100
}

// DaysUntilDeadline is the calendar-day distance from now to the deadline,
// both truncated to UTC midnight. Past deadlines come back negative.
func DaysUntilDeadline(deadline string, now time.Time) (int, error) {
	d, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		if d, err = time.Parse(time.RFC3339, deadline); err != nil {
			return 0, err
		}
	}
	day := func(t time.Time) time.Time {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(day(d).Sub(day(now)).Hours() / 24), nil
}

// MatchScorePercent renders a 0-100 match score for display. A nil score
// reads as 0 and out-of-range values are clamped; no rescaling multiplier
// is applied to the stored score.
func MatchScorePercent(score *float64) int {
	if score == nil {
		return 0
	}
	return int(math.Floor(math.Min(100, math.Max(0, *score))))
}
