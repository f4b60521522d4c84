package app

import (
	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
	"github.com/klabast/wb-services/programacao/internal/week"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// StatusResponse acknowledges a mutation; Status is "ok" or "noop".
type StatusResponse struct {
	Status string `json:"status"`
}

// DayView is one day of the displayed week.
type DayView struct {
	Day     schedule.Day `json:"day"`
	Label   string       `json:"label"`
	Date    string       `json:"date"`
	Holiday string       `json:"holiday,omitempty"`
}

// WeekView is the displayed week window.
type WeekView struct {
	Label     string    `json:"label"`
	Reference string    `json:"reference"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	DayName   string    `json:"dayName"`
	Days      []DayView `json:"days"`
}

func toWeekView(w week.Window) WeekView {
	view := WeekView{
		Label:     w.Label,
		Reference: w.Reference.Format(week.DateLayout),
		Start:     w.Start.Format(week.DateLayout),
		End:       w.End.Format(week.DateLayout),
		DayName:   w.DayName,
		Days:      make([]DayView, 0, len(w.Dates)),
	}
	for i, d := range w.Dates {
		date := d.Format(week.DateLayout)
		view.Days = append(view.Days, DayView{
			Day:     schedule.Days[i],
			Label:   schedule.Days[i].Label(),
			Date:    date,
			Holiday: w.Holidays[date],
		})
	}
	return view
}

// DayOption is one entry of the form's day selector.
type DayOption struct {
	Value schedule.Day `json:"value"`
	Label string       `json:"label"`
}

// ConfigResponse describes the form and the server mode.
type ConfigResponse struct {
	Days            []DayOption `json:"days"`
	TimeSlots       []string    `json:"timeSlots"`
	DefaultDay      string      `json:"defaultDay"`
	DefaultTime     string      `json:"defaultTime"`
	PreviewCapacity int         `json:"previewCapacity"`
	ShareEnabled    bool        `json:"shareEnabled"`
	ReadOnly        bool        `json:"readOnly"`
	Week            WeekView    `json:"week"`
}

// ScheduleResponse carries every view of the activity collection.
type ScheduleResponse struct {
	Week       WeekView             `json:"week"`
	Activities []schedule.Activity  `json:"activities"`
	Days       []schedule.DayGroup  `json:"days"`
	Preview    []schedule.Activity  `json:"preview"`
	Editor     schedule.EditorState `json:"editor"`
}

// SourcesResponse lists the three catalogs.
type SourcesResponse struct {
	Locations []sources.Location `json:"locations"`
	Leaders   []string           `json:"leaders"`
	Groups    []string           `json:"groups"`
}

// ActivityResponse returns a created or updated activity.
type ActivityResponse struct {
	Activity schedule.Activity    `json:"activity"`
	Editor   schedule.EditorState `json:"editor"`
}

// SelectRequest binds the editor to an activity.
type SelectRequest struct {
	ID string `json:"id"`
}

// NameRequest adds or removes a leader or group.
type NameRequest struct {
	Name string `json:"name"`
}

// ResetRequest must carry confirm=true.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}
