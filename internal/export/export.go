// Package export turns a week's schedule into downloadable artifacts: the
// preview image, calendar files and spreadsheets.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/week"
)

// Formats served by the download endpoint
const (
	FormatPNG  = "png"
	FormatICS  = "ics"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// FilePrefix starts every exported file name.
const FilePrefix = "programacao-"

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatICS:  "text/calendar; charset=utf-8",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatJSON: "application/json; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var whitespace = regexp.MustCompile(`\s`)

// Week is the input of every exporter: the displayed window and the
// activities in canonical order.
type Week struct {
	Window     week.Window
	Activities []schedule.Activity
}

// FileName builds the download name for a week label, replacing every
// whitespace character with a hyphen.
func FileName(label, ext string) string {
	return FilePrefix + whitespace.ReplaceAllString(label, "-") + "." + ext
}

// ContentType returns the media type of a format.
func ContentType(format string) (string, bool) {
	ct, ok := contentTypes[format]
	return ct, ok
}

// Render produces the artifact for one of the download formats.
func Render(format string, wk Week) ([]byte, error) {
	switch format {
	case FormatICS:
		return ICS(wk, ICSOptions{}), nil
	case FormatCSV:
		return CSV(wk)
	case FormatJSON:
		return JSON(wk)
	case FormatXLSX:
		return XLSX(wk)
	case FormatPNG:
		return PNG(wk, PNGOptions{})
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// dateOf returns the calendar date of an activity inside the window.
func dateOf(wk Week, a schedule.Activity) (time.Time, bool) {
	idx := a.Day.Index()
	if idx < 0 {
		return time.Time{}, false
	}
	return wk.Window.Dates[idx], true
}

// clock splits a validated HH:MM value.
func clock(t string) (hour, minute int) {
	if !schedule.ValidTime(t) {
		return 0, 0
	}
	hour = int(t[0]-'0')*10 + int(t[1]-'0')
	minute = int(t[3]-'0')*10 + int(t[4]-'0')
	return hour, minute
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
