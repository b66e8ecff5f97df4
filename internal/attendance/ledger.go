package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timetext"
)

// Row is one line of a monthly ledger: either one interval or a day without
// any interval (Blank).
type Row struct {
	Date     string // YYYY/MM/DD
	From     string // recorded, HH:MM or ""
	To       string
	CalcFrom string // rounded up to the grid, HH:MM or ""
	CalcTo   string // rounded down to the grid, HH:MM or ""
	Duration time.Duration
	Overtime time.Duration
	Blank    bool
}

// Report is the monthly ledger of one user.
type Report struct {
	User      string
	Month     time.Time // first day of the month
	Rows      []Row
	Total     time.Duration
	Intervals int
}

// Ledger aggregates stored intervals into monthly reports. It never writes.
type Ledger struct {
	intervals *storage.Intervals
}

// NewLedger returns a Ledger reading through intervals.
func NewLedger(intervals *storage.Intervals) *Ledger {
	return &Ledger{intervals: intervals}
}

// Build scans every day of month's month for user and computes rounded
// times, durations and overtime. The full month is read before returning.
func (l *Ledger) Build(ctx context.Context, user string, month time.Time) (*Report, error) {
	first := timecalc.StartOfMonth(month)
	rep := &Report{User: user, Month: first}

	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		date := timetext.FormatDate(day)
		record, err := l.intervals.Get(ctx, user, date)
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			rep.Rows = append(rep.Rows, Row{Date: date, Blank: true})
			continue
		}
		for _, iv := range record {
			row, err := buildRow(day, date, iv)
			if err != nil {
				return nil, err
			}
			rep.Rows = append(rep.Rows, row)
			rep.Total += row.Duration
			rep.Intervals++
		}
	}
	return rep, nil
}

func buildRow(day time.Time, date string, iv model.WorkInterval) (Row, error) {
	row := Row{Date: date, From: model.Deref(iv.From), To: model.Deref(iv.To)}

	var from, calcFrom, calcTo time.Time
	if iv.From != nil {
		t, err := timetext.ParseTime(day, *iv.From)
		if err != nil {
			return Row{}, fmt.Errorf("stored start %q of %s: %w", *iv.From, date, err)
		}
		from = t
		calcFrom = timecalc.CeilToGrid(from)
		row.CalcFrom = timecalc.FormatClock(calcFrom)
	}
	if iv.To != nil {
		to, err := timetext.ParseTime(day, *iv.To)
		if err != nil {
			return Row{}, fmt.Errorf("stored end %q of %s: %w", *iv.To, date, err)
		}
		// An end before the start belongs to the next day.
		if iv.From != nil && to.Before(from) {
			to = to.Add(24 * time.Hour)
		}
		calcTo = timecalc.FloorToGrid(to)
		row.CalcTo = timecalc.FormatClock(calcTo)
	}

	if iv.From != nil && iv.To != nil {
		if d := calcTo.Sub(calcFrom); d > 0 {
			row.Duration = d
		}
	}
	row.Overtime = timecalc.Overtime(row.Duration)
	return row, nil
}
