package timecalc

import (
	"fmt"
	"time"
)

// GridMinutes is the rounding grid used for calculated start and end times.
const GridMinutes = 15

// StandardWorkday is the daily duration after which time counts as overtime.
const StandardWorkday = 9 * time.Hour

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Midnight returns the start of the next day (midnight) in the same location.
func Midnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfMonth returns 00:00:00 of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// CeilToGrid rounds t up to the next grid boundary of its wall clock.
// Times already on the grid are returned unchanged (seconds dropped).
func CeilToGrid(t time.Time) time.Time {
	mins := t.Hour()*60 + t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 {
		mins++
	}
	if r := mins % GridMinutes; r != 0 {
		mins += GridMinutes - r
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, mins, 0, 0, t.Location())
}

// FloorToGrid rounds t down to the previous grid boundary of its wall clock.
func FloorToGrid(t time.Time) time.Time {
	mins := t.Hour()*60 + t.Minute()
	mins -= mins % GridMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), 0, mins, 0, 0, t.Location())
}

// Overtime returns the part of d exceeding the standard workday, never negative.
func Overtime(d time.Duration) time.Duration {
	if d > StandardWorkday {
		return d - StandardWorkday
	}
	return 0
}

// FormatClock formats t's wall clock as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatHHMM formats a duration as HH:MM. Negative durations get a leading
// minus sign; hours are never truncated.
func FormatHHMM(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Minute)
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}
