package messages

import (
	"fmt"
	"math/rand"
	"strings"
)

// ID names a reply kind.
type ID string

const (
	Future     ID = "future"
	ClockIn    ID = "clock_in"
	ClockOut   ID = "clock_out"
	Delete     ID = "delete"
	BeforeList ID = "before_list"
	BeforeCSV  ID = "before_csv"
	List       ID = "list"
	NoList     ID = "no_list"
	Error      ID = "error"
)

// IDs lists every reply kind in a stable order.
var IDs = []ID{Future, ClockIn, ClockOut, Delete, BeforeList, BeforeCSV, List, NoList, Error}

// Defaults returns the built-in templates.
func Defaults() map[ID][]string {
	return map[ID][]string{
		Future:     {"Sure. %{user} will arrive at %{from}."},
		ClockIn:    {"Good morning! %{user} started working at %{from}-%{to} on %{date}."},
		ClockOut:   {"Good bye! %{user} finished working at %{from}-%{to} on %{date}."},
		Delete:     {"OK. %{user}'s working time on %{date} was deleted."},
		BeforeList: {"OK. There is %{user}'s working time list on %{month}."},
		BeforeCSV:  {"OK. There is %{user}'s working time list on %{month} with CSV format."},
		List:       {"%{list}"},
		NoList:     {"The list of %{month} is nothing."},
		Error:      {"Error occurred: %{message}"},
	}
}

// Vars holds placeholder values. Keys are placeholder names without the
// %{...} wrapping, e.g. "user".
type Vars map[string]string

// Set is an immutable collection of reply templates.
type Set struct {
	templates map[ID][]string
	pick      func(n int) int
}

// New builds a Set from the defaults, replacing every ID present in
// overrides with a non-empty list. Unknown IDs are rejected.
func New(overrides map[ID][]string) (*Set, error) {
	templates := Defaults()
	for id, list := range overrides {
		if _, ok := templates[id]; !ok {
			return nil, fmt.Errorf("unknown message id %q", id)
		}
		if len(list) == 0 {
			continue
		}
		templates[id] = append([]string(nil), list...)
	}
	return &Set{templates: templates, pick: rand.Intn}, nil
}

// WithPicker returns a copy of s that chooses among alternative templates
// with pick instead of a random number.
func (s *Set) WithPicker(pick func(n int) int) *Set {
	return &Set{templates: s.templates, pick: pick}
}

// Render picks a template for id and substitutes vars.
func (s *Set) Render(id ID, vars Vars) string {
	list := s.templates[id]
	if len(list) == 0 {
		return ""
	}
	tmpl := list[0]
	if len(list) > 1 {
		tmpl = list[s.pick(len(list))]
	}
	return Substitute(tmpl, vars)
}

// Substitute replaces every %{name} in tmpl with vars[name]. Placeholders
// without a value are left untouched.
func Substitute(tmpl string, vars Vars) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(vars))
	for name, value := range vars {
		pairs = append(pairs, "%{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
