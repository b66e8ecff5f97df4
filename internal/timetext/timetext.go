// Package timetext turns loosely formatted date and time fragments typed in
// chat ("9", "1730", "9:00", "1224", "12/24", "24/12/24") into calendar times
// on the host's local clock.
package timetext

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/apperr"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var (
	reClockColon   = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)
	reClockCompact = regexp.MustCompile(`^(\d{1,2})(\d{2})$`)
	reClockHour    = regexp.MustCompile(`^(\d{1,2})$`)

	reDateSlash   = regexp.MustCompile(`^(?:(\d{2}|\d{4})/)?(\d{1,2})/(\d{1,2})$`)
	reDateCompact = regexp.MustCompile(`^(\d{2}|\d{4})?(\d{1,2})(\d{2})$`)

	reMonthDigits = regexp.MustCompile(`^\d{1,4}$`)
)

// ParseTime resolves a time fragment against day. Accepted shapes, in order:
// H:MM or HH:MM when the fragment contains a colon, HMM or HHMM when it is
// three or four characters long, H or HH otherwise.
//
// Minutes that overflow the hour are normalised ("9:75" is 10:15); the result
// must still fall within [00:00, 24:00) of day.
func ParseTime(day time.Time, s string) (time.Time, error) {
	var m []string
	switch {
	case strings.Contains(s, ":"):
		m = reClockColon.FindStringSubmatch(s)
	case len(s) == 3 || len(s) == 4:
		m = reClockCompact.FindStringSubmatch(s)
	default:
		m = reClockHour.FindStringSubmatch(s)
	}
	if m == nil {
		return time.Time{}, apperr.New(apperr.TimeFormat, s)
	}

	hour := atoi(m[1])
	minute := 0
	if len(m) > 2 {
		minute = atoi(m[2])
	}

	start := timecalc.StartOfDay(day)
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	if t.Before(start) || !t.Before(timecalc.Midnight(day)) {
		return time.Time{}, apperr.New(apperr.TimeRange, s)
	}
	return t, nil
}

// ParseDate resolves a date fragment, falling back to ref for an omitted year.
// Accepted shapes are [YY/|YYYY/]M/D with slashes and [YY|YYYY]MDD without.
// Two-digit years are expanded to 20YY.
func ParseDate(ref time.Time, s string) (time.Time, error) {
	var m []string
	if strings.Contains(s, "/") {
		m = reDateSlash.FindStringSubmatch(s)
	} else {
		m = reDateCompact.FindStringSubmatch(s)
	}
	if m == nil {
		return time.Time{}, apperr.New(apperr.DateFormat, s)
	}

	year := ref.Year()
	if m[1] != "" {
		year = expandYear(m[1])
	}
	month := atoi(m[2])
	day := atoi(m[3])

	if month < 1 || month > 12 {
		return time.Time{}, apperr.New(apperr.DateFormat, s)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, ref.Location())
	if day < 1 || day > timecalc.DaysInMonth(first) {
		return time.Time{}, apperr.New(apperr.DateFormat, s)
	}
	return first.AddDate(0, 0, day-1), nil
}

// ParseMonth resolves the year and month fragments of a list request to the
// first day of that month. Empty fragments fall back to ref.
func ParseMonth(ref time.Time, year, month string) (time.Time, error) {
	y, mo := ref.Year(), int(ref.Month())
	if year != "" {
		if !reMonthDigits.MatchString(year) || (len(year) != 2 && len(year) != 4) {
			return time.Time{}, apperr.New(apperr.DateFormat, year)
		}
		y = expandYear(year)
	}
	if month != "" {
		if !reMonthDigits.MatchString(month) {
			return time.Time{}, apperr.New(apperr.DateFormat, month)
		}
		mo = atoi(month)
	}
	if mo < 1 || mo > 12 {
		return time.Time{}, apperr.New(apperr.DateFormat, year+month)
	}
	return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, ref.Location()), nil
}

// FormatDate formats t as YYYY/MM/DD, the form used in storage keys and replies.
func FormatDate(t time.Time) string {
	return t.Format("2006/01/02")
}

func expandYear(s string) int {
	if len(s) == 2 {
		s = "20" + s
	}
	return atoi(s)
}

// atoi is only called on regexp-validated digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
