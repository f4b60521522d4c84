// Package week derives Monday-start week windows and their pt-BR labels.
package week

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goodsign/monday"
)

// DateLayout is the layout used for window dates in JSON and holiday keys.
const DateLayout = "2006-01-02"

// locale drives month and weekday names.
const locale = monday.LocalePtBR

// Window is the Monday to Sunday range around a reference date.
type Window struct {
	Reference time.Time
	Start     time.Time
	End       time.Time
	Dates     [7]time.Time
	Label     string
	DayName   string
	Holidays  map[string]string
}

// MonthName returns the long pt-BR name of m.
func MonthName(m time.Month) string {
	return strings.ToLower(monday.Format(time.Date(2000, m, 1, 12, 0, 0, 0, time.UTC), "January", locale))
}

// WeekdayName returns the long pt-BR name of d.
func WeekdayName(d time.Weekday) string {
	// 2000-01-02 was a Sunday.
	return strings.ToLower(monday.Format(time.Date(2000, 1, 2+int(d), 12, 0, 0, 0, time.UTC), "Monday", locale))
}

// Monday returns the Monday of ref's week. Sunday belongs to the week that
// started six days earlier.
func Monday(ref time.Time) time.Time {
	// Use noon to avoid DST issues when shifting by whole days
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 12, 0, 0, 0, ref.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WindowFor computes the week window containing ref.
func WindowFor(ref time.Time) Window {
	monday := Monday(ref)

	w := Window{
		Reference: ref,
		Start:     monday,
		DayName:   WeekdayName(monday.Weekday()),
		Holidays:  make(map[string]string),
	}
	for i := range w.Dates {
		w.Dates[i] = monday.AddDate(0, 0, i)
	}
	w.End = w.Dates[6]
	w.Label = Label(w.Start, w.End)

	for _, year := range uniqueYears(w.Start, w.End) {
		for date, name := range Holidays(year) {
			if w.Contains(date) {
				w.Holidays[date] = name
			}
		}
	}
	return w
}

// Label formats the week label for the given Monday and Sunday.
func Label(monday, sunday time.Time) string {
	startMonth := MonthName(monday.Month())
	endMonth := MonthName(sunday.Month())
	if startMonth == endMonth {
		return fmt.Sprintf("Semana %d-%d de %s", monday.Day(), sunday.Day(), startMonth)
	}
	return fmt.Sprintf("Semana %d de %s - %d de %s", monday.Day(), startMonth, sunday.Day(), endMonth)
}

// Contains reports whether the YYYY-MM-DD date falls inside the window.
func (w Window) Contains(date string) bool {
	for _, d := range w.Dates {
		if d.Format(DateLayout) == date {
			return true
		}
	}
	return false
}

func uniqueYears(start, end time.Time) []int {
	if start.Year() == end.Year() {
		return []int{start.Year()}
	}
	return []int{start.Year(), end.Year()}
}

// Navigator tracks the reference date of the displayed week.
type Navigator struct {
	mu  sync.RWMutex
	ref time.Time
	now func() time.Time
}

// NewNavigator starts at the current date of the given clock. A nil clock
// uses time.Now.
func NewNavigator(now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{ref: now(), now: now}
}

// Advance shifts the reference date by 7*weeks days. There is no bound in
// either direction.
func (n *Navigator) Advance(weeks int) Window {
	n.mu.Lock()
	n.ref = n.ref.AddDate(0, 0, 7*weeks)
	ref := n.ref
	n.mu.Unlock()
	return WindowFor(ref)
}

// Next moves one week forward.
func (n *Navigator) Next() Window { return n.Advance(1) }

// Prev moves one week back.
func (n *Navigator) Prev() Window { return n.Advance(-1) }

// ResetToToday moves the reference back to the clock's current date.
func (n *Navigator) ResetToToday() Window {
	n.mu.Lock()
	n.ref = n.now()
	ref := n.ref
	n.mu.Unlock()
	return WindowFor(ref)
}

// Current returns the window for the current reference date.
func (n *Navigator) Current() Window {
	n.mu.RLock()
	ref := n.ref
	n.mu.RUnlock()
	return WindowFor(ref)
}

// Reference returns the current reference date.
func (n *Navigator) Reference() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.ref
}
