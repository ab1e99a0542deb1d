package store

import (
	"fmt"
	"time"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// PeriodStart returns the lower bound of a report window in now's location.
// "week" is a rolling 7x24h window, the others start on calendar boundaries.
// ok is false for "all", which has no lower bound.
func PeriodStart(period string, now time.Time) (start time.Time, ok bool, err error) {
	y, m, d := now.Date()
	loc := now.Location()
	switch NormalizePeriod(period) {
	case PeriodToday:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true, nil
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), true, nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true, nil
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true, nil
	case PeriodAll:
		return time.Time{}, false, nil
	}
	return time.Time{}, false, Invalidf("unknown period %q", period)
}

// NormalizePeriod maps the empty period to today.
func NormalizePeriod(period string) string {
	if period == "" {
		return PeriodToday
	}
	return period
}

func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

// ReceiptNumber formats the display identifier of the seq-th sale of a year.
func ReceiptNumber(year, seq int) string {
	return fmt.Sprintf("RCP-%d-%06d", year, seq)
}

// Now is the clock used for creation timestamps. Millisecond precision keeps
// values identical across every backend's timestamp column.
var Now = func() time.Time {
	return time.Now().Truncate(time.Millisecond)
}
