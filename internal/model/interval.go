package model

// WorkInterval is one clock-in/clock-out pair of a user on one day.
// Times are HH:MM strings on the day's local clock; either may be absent.
type WorkInterval struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

// Closed reports whether the interval has a departure time.
func (w WorkInterval) Closed() bool {
	return w.To != nil
}

// DayState is the state of a DayRecord with respect to clock-ins.
type DayState int

const (
	// Empty means no interval has been recorded.
	Empty DayState = iota
	// Open means the last interval still waits for its departure time.
	Open
	// Closed means the last interval has a departure time.
	Closed
)

func (s DayState) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "empty"
	}
}

// DayRecord is the ordered list of intervals of one user on one date, in the
// order they were entered.
type DayRecord []WorkInterval

// State returns the current state of the record.
func (r DayRecord) State() DayState {
	if len(r) == 0 {
		return Empty
	}
	if r[len(r)-1].Closed() {
		return Closed
	}
	return Open
}

// Apply records a clock-in and/or clock-out and returns the updated record.
// An open last interval is closed with to, keeping its recorded start, or gets
// a new start when only from is given. Otherwise a new interval is started.
// Closed intervals are never modified.
func (r DayRecord) Apply(from, to *string) DayRecord {
	if from == nil && to == nil {
		return r
	}
	out := make(DayRecord, len(r), len(r)+1)
	copy(out, r)

	if out.State() != Open {
		return append(out, WorkInterval{From: clone(from), To: clone(to)})
	}

	last := &out[len(out)-1]
	if to == nil {
		// Clocking in again corrects the start of the open interval.
		last.From = clone(from)
		return out
	}
	if last.From == nil {
		last.From = clone(from)
	}
	last.To = clone(to)
	return out
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the string behind p, or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
