package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/week"
)

// ICS constants
const (
	ICSProductID    = "-//Programacao//Programacao de Campo//PT"
	ICSTimezone     = "America/Recife"
	ICSUIDDomain    = "programacao"
	DefaultDuration = time.Hour
)

// CSVHeader is the first row of the CSV export.
var CSVHeader = []string{"Dia", "Horário", "Local", "Dirigente", "Grupo"}

// ICSOptions tunes the calendar export.
type ICSOptions struct {
	// Duration of each event; DefaultDuration when zero.
	Duration time.Duration
	// ReminderMinutes adds a display alarm this many minutes before each
	// event when positive.
	ReminderMinutes int
	// Stamp is written as DTSTAMP; the window start when zero, which keeps
	// the output stable for unchanged schedules.
	Stamp time.Time
	// Subscription marks the feed for calendar subscriptions: METHOD:PUBLISH,
	// a refresh interval and no alarms.
	Subscription bool
}

// SubscriptionTTL is the refresh interval suggested to subscribers.
const SubscriptionTTL = "PT1H"

// ICS renders one timed event per activity on its date in the window.
func ICS(wk Week, opts ICSOptions) []byte {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = wk.Window.Start
	}

	var buf bytes.Buffer
	w := &buf
	writeLine(w, "BEGIN:VCALENDAR")
	writeLine(w, "VERSION:2.0")
	writeLine(w, "PRODID:"+ICSProductID)
	if opts.Subscription {
		writeLine(w, "METHOD:PUBLISH")
	}
	writeLine(w, "X-WR-CALNAME:"+escapeText("Programação "+wk.Window.Label))
	writeLine(w, "X-WR-TIMEZONE:"+ICSTimezone)
	writeLine(w, "CALSCALE:GREGORIAN")
	if opts.Subscription {
		writeLine(w, "X-PUBLISHED-TTL:"+SubscriptionTTL)
	}
	writeTimezone(w)

	for _, a := range wk.Activities {
		date, ok := dateOf(wk, a)
		if !ok {
			continue
		}
		hour, minute := clock(a.Time)
		start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
		end := start.Add(opts.Duration)

		writeLine(w, "BEGIN:VEVENT")
		writeLine(w, fmt.Sprintf("UID:%s@%s", a.ID, ICSUIDDomain))
		writeLine(w, "DTSTAMP:"+stamp.UTC().Format("20060102T150405Z"))
		writeLine(w, fmt.Sprintf("DTSTART;TZID=%s:%s", ICSTimezone, start.Format("20060102T150405")))
		writeLine(w, fmt.Sprintf("DTEND;TZID=%s:%s", ICSTimezone, end.Format("20060102T150405")))
		writeLine(w, "SUMMARY:"+escapeText(summary(a.Location, a.GroupName())))
		writeLine(w, "DESCRIPTION:"+escapeText(description(a.Leader, a.GroupName())))
		writeLine(w, "LOCATION:"+escapeText(a.Location))
		if opts.ReminderMinutes > 0 && !opts.Subscription {
			addAlarm(w, opts.ReminderMinutes, a.Location)
		}
		writeLine(w, "END:VEVENT")
	}

	writeLine(w, "END:VCALENDAR")
	return buf.Bytes()
}

func summary(location, group string) string {
	if group == "" {
		return location
	}
	return location + " (" + group + ")"
}

func description(leader, group string) string {
	parts := []string{"Dirigente: " + orDash(leader)}
	if group != "" {
		parts = append(parts, "Grupo: "+group)
	}
	return strings.Join(parts, "\n")
}

// addAlarm writes a display alarm triggered minutesBefore the event start.
func addAlarm(w io.Writer, minutesBefore int, location string) {
	hours := minutesBefore / 60
	minutes := minutesBefore % 60

	writeLine(w, "BEGIN:VALARM")
	writeLine(w, "ACTION:DISPLAY")
	writeLine(w, "DESCRIPTION:"+escapeText("Lembrete: "+location))
	writeLine(w, fmt.Sprintf("TRIGGER:-PT%dH%dM", hours, minutes))
	writeLine(w, "END:VALARM")
}

// writeTimezone defines ICSTimezone. Recife has stayed at UTC-3 without
// daylight saving since 2000.
func writeTimezone(w io.Writer) {
	writeLine(w, "BEGIN:VTIMEZONE")
	writeLine(w, "TZID:"+ICSTimezone)
	writeLine(w, "BEGIN:STANDARD")
	writeLine(w, "DTSTART:19700101T000000")
	writeLine(w, "TZOFFSETFROM:-0300")
	writeLine(w, "TZOFFSETTO:-0300")
	writeLine(w, "TZNAME:-03")
	writeLine(w, "END:STANDARD")
	writeLine(w, "END:VTIMEZONE")
}

// maxLineOctets is the longest content line before folding.
const maxLineOctets = 75

// writeLine terminates each content line with CRLF, folding it into
// continuation lines of at most maxLineOctets without splitting a UTF-8
// sequence.
func writeLine(w io.Writer, s string) {
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		_, _ = io.WriteString(w, s[:cut]+"\r\n ")
		s = s[cut:]
		// The leading space counts toward the continuation line.
		limit = maxLineOctets - 1
	}
	_, _ = io.WriteString(w, s+"\r\n")
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}

// CSV renders one row per activity under CSVHeader.
func CSV(wk Week) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, a := range wk.Activities {
		if err := cw.Write([]string{a.Day.Label(), a.Time, a.Location, a.Leader, a.GroupName()}); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

type jsonActivity struct {
	ID       string `json:"id"`
	Day      string `json:"day"`
	DayLabel string `json:"dayLabel"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Leader   string `json:"leader"`
	Group    string `json:"group,omitempty"`
	ImageURL string `json:"imageUrl"`
	Night    bool   `json:"night"`
}

type jsonWeek struct {
	Label    string            `json:"label"`
	Start    string            `json:"start"`
	End      string            `json:"end"`
	Holidays map[string]string `json:"holidays,omitempty"`
}

// JSON renders the window and its activities.
func JSON(wk Week) ([]byte, error) {
	acts := make([]jsonActivity, 0, len(wk.Activities))
	for _, a := range wk.Activities {
		ja := jsonActivity{
			ID:       a.ID,
			Day:      string(a.Day),
			DayLabel: a.Day.Label(),
			Time:     a.Time,
			Location: a.Location,
			Leader:   a.Leader,
			Group:    a.GroupName(),
			ImageURL: a.ImageURL,
			Night:    schedule.IsNight(a.Time),
		}
		if date, ok := dateOf(wk, a); ok {
			ja.Date = date.Format(week.DateLayout)
		}
		acts = append(acts, ja)
	}

	data := map[string]any{
		"week": jsonWeek{
			Label:    wk.Window.Label,
			Start:    wk.Window.Start.Format(week.DateLayout),
			End:      wk.Window.End.Format(week.DateLayout),
			Holidays: wk.Window.Holidays,
		},
		"activities": acts,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json export: %w", err)
	}
	return out, nil
}
