// Package app exposes the schedule, the source catalogs and the exports over
// HTTP.
package app

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
	"github.com/klabast/wb-services/programacao/internal/week"
)

// multipartOverhead is allowed on top of the image limit for form fields.
const multipartOverhead = 1 << 20

// Handler coordinates HTTP requests with the week navigator, the activity
// store and the source registry.
type Handler struct {
	cfg      Config
	nav      *week.Navigator
	store    *schedule.Store
	editor   *schedule.Editor
	registry *sources.Registry
	logger   *log.Logger
}

// NewHandler builds a Handler. A nil logger means log.Default().
func NewHandler(cfg Config, nav *week.Navigator, store *schedule.Store, registry *sources.Registry, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		cfg:      cfg,
		nav:      nav,
		store:    store,
		editor:   schedule.NewEditor(store),
		registry: registry,
		logger:   logger,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/api/config", h.GetConfig)

	mux.HandleFunc("/api/week", h.HandleWeek)
	mux.HandleFunc("/api/week/next", h.HandleWeekNext)
	mux.HandleFunc("/api/week/prev", h.HandleWeekPrev)
	mux.HandleFunc("/api/week/today", h.HandleWeekToday)

	mux.HandleFunc("/api/activities", h.HandleActivities)
	mux.HandleFunc("/api/activities/", h.HandleActivityByID)
	mux.HandleFunc("/api/schedule", h.HandleSchedule)

	mux.HandleFunc("/api/editor", h.HandleEditor)
	mux.HandleFunc("/api/editor/select", h.HandleEditorSelect)
	mux.HandleFunc("/api/editor/cancel", h.HandleEditorCancel)
	mux.HandleFunc("/api/editor/submit", h.HandleEditorSubmit)

	mux.HandleFunc("/api/sources", h.HandleSources)
	mux.HandleFunc("/api/sources/locations", h.AddLocation)
	mux.HandleFunc("/api/sources/locations/", h.DeleteLocation)
	mux.HandleFunc("/api/sources/leaders", h.HandleLeaders)
	mux.HandleFunc("/api/sources/groups", h.HandleGroups)

	mux.HandleFunc("/api/export/png", h.HandleExportPNG)
	mux.HandleFunc("/api/export/share", h.HandleShare)
	mux.HandleFunc("/api/download", h.HandleDownload)
	mux.HandleFunc("/api/subscribe", h.HandleSubscribe)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GetConfig returns the form options and the server mode.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	days := make([]DayOption, 0, len(schedule.Days))
	for _, d := range schedule.Days {
		days = append(days, DayOption{Value: d, Label: d.Label()})
	}
	writeJSON(w, http.StatusOK, ConfigResponse{
		Days:            days,
		TimeSlots:       schedule.TimeSlots(),
		DefaultDay:      string(schedule.DefaultDay),
		DefaultTime:     schedule.DefaultTime,
		PreviewCapacity: schedule.PreviewCapacity,
		ShareEnabled:    h.cfg.ShareEnabled,
		ReadOnly:        h.cfg.ReadOnly,
		Week:            toWeekView(h.nav.Current()),
	})
}

// HandleWeek returns the displayed week.
func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, toWeekView(h.nav.Current()))
}

// HandleWeekNext moves the displayed week forward by one.
func (h *Handler) HandleWeekNext(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, toWeekView(h.nav.Next()))
}

// HandleWeekPrev moves the displayed week back by one.
func (h *Handler) HandleWeekPrev(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, toWeekView(h.nav.Prev()))
}

// HandleWeekToday returns to the week containing today.
func (h *Handler) HandleWeekToday(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, toWeekView(h.nav.ResetToToday()))
}

// HandleActivities lists or creates activities.
func (h *Handler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, h.store.List())
		return
	}
	if !h.RequireWritable(w) {
		return
	}

	var in schedule.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	activity, err := h.store.Add(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ActivityResponse{Activity: activity, Editor: h.editor.State()})
}

// HandleActivityByID reads, updates or deletes one activity.
// URL: /api/activities/{id}, plus /api/activities/reset
func (h *Handler) HandleActivityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/activities/")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, ErrMissingActivityID)
		return
	}
	if id == "reset" {
		h.HandleReset(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		activity, ok := h.store.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, ErrTypeNotFound, schedule.ErrActivityNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, activity)

	case http.MethodPut:
		if !h.RequireWritable(w) {
			return
		}
		var in schedule.Input
		if !decodeJSON(w, r, &in) {
			return
		}
		activity, found, err := h.store.Update(id, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !found {
			writeStatus(w, "noop")
			return
		}
		writeJSON(w, http.StatusOK, ActivityResponse{Activity: activity, Editor: h.editor.State()})

	case http.MethodDelete:
		if !h.RequireWritable(w) {
			return
		}
		// Deleting an absent id still succeeds.
		h.editor.Delete(id)
		writeStatus(w, "ok")
	}
}

// HandleReset clears every activity. The body must confirm the reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !h.RequireWritable(w) {
		return
	}
	var req ResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, ErrTypeValidation, ErrConfirmRequired)
		return
	}
	h.editor.Reset()
	h.logger.Printf("All activities cleared")
	writeStatus(w, "ok")
}

// HandleSchedule returns the sorted list, the per-day groups and the preview.
func (h *Handler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	activities := h.store.List()
	groups := schedule.GroupByDay(activities)
	writeJSON(w, http.StatusOK, ScheduleResponse{
		Week:       toWeekView(h.nav.Current()),
		Activities: activities,
		Days:       groups[:],
		Preview:    schedule.Preview(activities),
		Editor:     h.editor.State(),
	})
}

// HandleEditor returns the form state.
func (h *Handler) HandleEditor(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.editor.State())
}

// HandleEditorSelect switches the form to editing an activity.
func (h *Handler) HandleEditorSelect(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !h.RequireWritable(w) {
		return
	}
	var req SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	state, err := h.editor.Select(req.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleEditorCancel returns the form to creating mode.
func (h *Handler) HandleEditorCancel(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, h.editor.Cancel())
}

// HandleEditorSubmit adds or updates depending on the form mode.
func (h *Handler) HandleEditorSubmit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !h.RequireWritable(w) {
		return
	}
	var in schedule.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	activity, found, state, err := h.editor.Submit(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !found {
		writeStatus(w, "noop")
		return
	}
	writeJSON(w, http.StatusOK, ActivityResponse{Activity: activity, Editor: state})
}

// HandleSources lists the three catalogs.
func (h *Handler) HandleSources(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, SourcesResponse{
		Locations: h.registry.Locations(),
		Leaders:   h.registry.Leaders(),
		Groups:    h.registry.Groups(),
	})
}

// AddLocation registers a location from a multipart form with a name and an
// image file.
func (h *Handler) AddLocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !h.RequireWritable(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrTypeTooLarge, sources.ErrImageTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, ErrInvalidBody)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, ErrInvalidBody)
		return
	}
	var upload io.Reader
	if file != nil {
		defer file.Close()
		upload = file
	}
	imageURL, err := sources.IngestImage(upload, h.cfg.MaxUploadBytes)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	loc, err := h.registry.AddLocation(r.FormValue("name"), imageURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

// DeleteLocation removes a location by id.
// URL: /api/sources/locations/{id}
func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) || !h.RequireWritable(w) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/sources/locations/")
	if id == "" {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "Missing location id")
		return
	}
	h.registry.RemoveLocation(id)
	writeStatus(w, "ok")
}

// HandleLeaders adds (POST) or removes (DELETE) a leader.
func (h *Handler) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	h.handleNames(w, r, h.registry.AddLeader, h.registry.RemoveLeader)
}

// HandleGroups adds (POST) or removes (DELETE) a group.
func (h *Handler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	h.handleNames(w, r, h.registry.AddGroup, h.registry.RemoveGroup)
}

func (h *Handler) handleNames(w http.ResponseWriter, r *http.Request, add func(string) error, remove func(string) bool) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodDelete) || !h.RequireWritable(w) {
		return
	}
	var req NameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if r.Method == http.MethodDelete {
		remove(req.Name)
		writeStatus(w, "ok")
		return
	}
	if err := add(req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, StatusResponse{Status: "ok"})
}

// writeDomainError maps validation and lookup errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sources.ErrDuplicate):
		writeError(w, http.StatusConflict, ErrTypeDuplicate, err.Error())
	case errors.Is(err, sources.ErrImageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, ErrTypeTooLarge, err.Error())
	case errors.Is(err, schedule.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, ErrTypeNotFound, err.Error())
	case errors.Is(err, schedule.ErrInvalidDay),
		errors.Is(err, schedule.ErrInvalidTime),
		errors.Is(err, schedule.ErrLocationRequired),
		errors.Is(err, sources.ErrEmptyName),
		errors.Is(err, sources.ErrNoImage),
		errors.Is(err, sources.ErrNotImage):
		writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error())
	default:
		log.Printf("Unexpected error: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}
