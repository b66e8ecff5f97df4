package storage

import (
	"context"
	"sync"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

// Intervals reads and writes the DayRecord of a (user, date) key on top of a
// Store. Append is a read-modify-write and is serialised within the process.
type Intervals struct {
	store Store
	mu    sync.Mutex
}

// NewIntervals wraps store.
func NewIntervals(store Store) *Intervals {
	return &Intervals{store: store}
}

// Get returns the intervals recorded for user on date (YYYY/MM/DD), in entry order.
func (a *Intervals) Get(ctx context.Context, user, date string) (model.DayRecord, error) {
	v, err := a.store.Get(ctx, model.NewKey(user, date))
	if err != nil {
		return nil, err
	}
	return model.DayRecord(v), nil
}

// Append records a clock-in and/or clock-out for user on date following the
// DayRecord state machine, and returns the stored record.
func (a *Intervals) Append(ctx context.Context, user, date string, from, to *string) (model.DayRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := model.NewKey(user, date)
	current, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	next := model.DayRecord(current).Apply(from, to)
	if err := a.store.Set(ctx, key, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove deletes every interval of user on date.
func (a *Intervals) Remove(ctx context.Context, user, date string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Remove(ctx, model.NewKey(user, date))
}
