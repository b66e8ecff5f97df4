package attendance

import (
	"context"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/apperr"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timetext"
)

// Request carries the raw fragments of a clock or delete command.
// Empty strings mean the fragment was omitted.
type Request struct {
	User string
	Date string
	From string
	To   string
}

// Result is the confirmation payload of a successful command.
type Result struct {
	User string
	Date string // YYYY/MM/DD
	From string // HH:MM or ""
	To   string // HH:MM or ""
	// Future is set for clock-ins on today's date at a time later than now.
	Future bool
	// Record is the stored DayRecord after the command.
	Record model.DayRecord
}

type direction int

const (
	clockIn direction = iota
	clockOut
)

// Recorder validates clock-in, clock-out and delete commands and persists them.
type Recorder struct {
	intervals *storage.Intervals
	now       func() time.Time
}

// NewRecorder returns a Recorder writing through intervals. now defaults to time.Now.
func NewRecorder(intervals *storage.Intervals, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{intervals: intervals, now: now}
}

// ClockIn records an arrival. Without any fragment the current time is used.
func (r *Recorder) ClockIn(ctx context.Context, req Request) (*Result, error) {
	return r.record(ctx, req, clockIn)
}

// ClockOut records a departure. Without any fragment the current time is used.
func (r *Recorder) ClockOut(ctx context.Context, req Request) (*Result, error) {
	return r.record(ctx, req, clockOut)
}

// Delete removes every interval of req.User on req.Date. The date is required;
// deleting a day without records succeeds.
func (r *Recorder) Delete(ctx context.Context, req Request) (*Result, error) {
	if req.Date == "" {
		return nil, apperr.New(apperr.Argument, "")
	}
	date, err := timetext.ParseDate(timecalc.StartOfDay(r.now()), req.Date)
	if err != nil {
		return nil, err
	}
	dateStr := timetext.FormatDate(date)
	if err := r.intervals.Remove(ctx, req.User, dateStr); err != nil {
		return nil, err
	}
	return &Result{User: req.User, Date: dateStr}, nil
}

func (r *Recorder) record(ctx context.Context, req Request, dir direction) (*Result, error) {
	if req.Date != "" && req.From == "" && req.To == "" {
		return nil, apperr.New(apperr.Argument, req.Date)
	}

	now := r.now()
	date := timecalc.StartOfDay(now)
	var from, to *time.Time
	future := false

	if req.Date == "" && req.From == "" && req.To == "" {
		if dir == clockIn {
			from = &now
		} else {
			to = &now
		}
	} else {
		if req.Date != "" {
			d, err := timetext.ParseDate(date, req.Date)
			if err != nil {
				return nil, err
			}
			date = d
		}
		if req.From != "" {
			f, err := timetext.ParseTime(date, req.From)
			if err != nil {
				return nil, err
			}
			from = &f
			future = dir == clockIn && timecalc.SameDay(date, now) && f.After(now)
		}
		if req.To != "" {
			t, err := timetext.ParseTime(date, req.To)
			if err != nil {
				return nil, err
			}
			to = &t
		}
	}

	res := &Result{User: req.User, Date: timetext.FormatDate(date), Future: future}
	if from != nil {
		res.From = timecalc.FormatClock(*from)
	}
	if to != nil {
		res.To = timecalc.FormatClock(*to)
	}

	record, err := r.intervals.Append(ctx, res.User, res.Date, model.StringPtr(res.From), model.StringPtr(res.To))
	if err != nil {
		return nil, err
	}
	res.Record = record
	if res.From != "" && res.To != "" {
		// An open interval keeps its recorded start when it is closed.
		res.From = model.Deref(record[len(record)-1].From)
	}
	return res, nil
}
