// Package schedule holds the week's activities in their canonical
// (day, time) order and the add/edit form state that drives them.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Day is one of the seven weekday symbols.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the weekdays in display order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayLabels = map[Day]string{
	Monday:    "Segunda-feira",
	Tuesday:   "Terça-feira",
	Wednesday: "Quarta-feira",
	Thursday:  "Quinta-feira",
	Friday:    "Sexta-feira",
	Saturday:  "Sábado",
	Sunday:    "Domingo",
}

// Form defaults
const (
	DefaultDay  = Monday
	DefaultTime = "09:00"
)

var (
	// ErrInvalidDay is returned for a day that is not one of the seven symbols.
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidTime is returned for a time that is not a 24h HH:MM value.
	ErrInvalidTime = errors.New("invalid time, expected HH:MM")
	// ErrLocationRequired is returned when the location is blank.
	ErrLocationRequired = errors.New("location is required")
	// ErrActivityNotFound is returned when an id does not match any activity.
	ErrActivityNotFound = errors.New("activity not found")
)

// Index maps the day to Monday=0 .. Sunday=6, or -1 for an unknown symbol.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is a known weekday symbol.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Label returns the pt-BR display name.
func (d Day) Label() string {
	return dayLabels[d]
}

// ParseDay parses a weekday symbol, case-insensitively.
func ParseDay(s string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return d, nil
}

// Activity is one scheduled occurrence.
type Activity struct {
	ID       string  `json:"id"`
	Day      Day     `json:"day"`
	Time     string  `json:"time"`
	Location string  `json:"location"`
	Leader   string  `json:"leader"`
	ImageURL string  `json:"imageUrl"`
	Group    *string `json:"group,omitempty"`
}

// GroupName returns the group or "" when none is set.
func (a Activity) GroupName() string {
	if a.Group == nil {
		return ""
	}
	return *a.Group
}

// Input carries the editable fields of an Activity.
type Input struct {
	Day      Day     `json:"day"`
	Time     string  `json:"time"`
	Location string  `json:"location"`
	Leader   string  `json:"leader"`
	Group    *string `json:"group,omitempty"`
}

// WithDefaults fills an empty day or time with the form defaults.
func (in Input) WithDefaults() Input {
	if in.Day == "" {
		in.Day = DefaultDay
	}
	if strings.TrimSpace(in.Time) == "" {
		in.Time = DefaultTime
	}
	return in
}

// Validate checks the required fields.
func (in Input) Validate() error {
	if !in.Day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, in.Day)
	}
	if !ValidTime(in.Time) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, in.Time)
	}
	if strings.TrimSpace(in.Location) == "" {
		return ErrLocationRequired
	}
	return nil
}

// ValidTime reports whether s is a zero-padded 24h HH:MM clock value. Only
// that shape keeps lexicographic order equal to chronological order.
func ValidTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour < 24 && minute < 60
}
