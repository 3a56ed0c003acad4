package analytics

import (
	"math"
	"time"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Range is a closed interval [From, To] of epoch milliseconds, matched
// against createdAt.
type Range struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func (r Range) Contains(ts int64) bool { return ts >= r.From && ts <= r.To }

func (r Range) Len() int64 { return r.To - r.From }

// Previous is the period of equal length that ends where r starts:
// [From-L, To-L].
func (r Range) Previous() Range {
	l := r.Len()
	return Range{From: r.From - l, To: r.To - l}
}

// AllTime matches every timestamp. Its Previous is meaningless.
func AllTime() Range { return Range{From: math.MinInt64, To: math.MaxInt64} }

// Last24h is (now-24h, now].
func Last24h(now time.Time) Range {
	ms := now.UnixMilli()
	return Range{From: ms - dayMillis, To: ms}
}

// Today runs from local midnight in loc up to now.
func Today(now time.Time, loc *time.Location) Range {
	return Range{From: StartOfDay(now, loc).UnixMilli(), To: now.UnixMilli()}
}

// LastDays covers n whole calendar days in loc ending with today.
func LastDays(now time.Time, n int, loc *time.Location) Range {
	if n < 1 {
		n = 1
	}
	start := StartOfDay(now, loc).AddDate(0, 0, -(n - 1))
	return Range{From: start.UnixMilli(), To: EndOfDay(now, loc).UnixMilli()}
}

// Days spans whole calendar days from the day of a to the day of b,
// whichever order they come in.
func Days(a, b time.Time, loc *time.Location) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{From: StartOfDay(a, loc).UnixMilli(), To: EndOfDay(b, loc).UnixMilli()}
}

// Custom normalizes two instants into a Range.
func Custom(a, b time.Time) Range {
	from, to := a.UnixMilli(), b.UnixMilli()
	return Range{From: min(from, to), To: max(from, to)}
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}
