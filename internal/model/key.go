package model

import "strings"

// Key identifies the DayRecord of one user on one date. Date is YYYY/MM/DD.
// Key is comparable and can be used directly as a map key.
type Key struct {
	User string
	Date string
}

// NewKey builds a Key.
func NewKey(user, date string) Key {
	return Key{User: user, Date: date}
}

// Compare orders keys by user, then by date. Dates in YYYY/MM/DD form sort
// chronologically as strings.
func Compare(a, b Key) int {
	if c := strings.Compare(a.User, b.User); c != 0 {
		return c
	}
	return strings.Compare(a.Date, b.Date)
}

// String is meant for logs only; storage backends use the fields.
func (k Key) String() string {
	return k.User + "@" + k.Date
}
