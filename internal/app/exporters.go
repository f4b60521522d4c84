package app

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/klabast/wb-services/programacao/internal/export"
	"github.com/klabast/wb-services/programacao/internal/observability"
)

// currentWeek snapshots the displayed window and the activities.
func (h *Handler) currentWeek() export.Week {
	return export.Week{Window: h.nav.Current(), Activities: h.store.List()}
}

func (h *Handler) renderPNG(wk export.Week) ([]byte, error) {
	data, err := export.PNG(wk, export.PNGOptions{Scale: h.cfg.ExportScale})
	observability.RecordExport(export.FormatPNG, err)
	if err != nil {
		h.logger.Printf("Error rendering preview image: %v", err)
	}
	return data, err
}

// HandleExportPNG returns the preview image as a download.
func (h *Handler) HandleExportPNG(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	wk := h.currentWeek()
	data, err := h.renderPNG(wk)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeExportFailed, ErrFailedToExport)
		return
	}
	serveArtifact(w, r, export.FormatPNG, export.FileName(wk.Window.Label, export.FormatPNG), data, true)
}

// HandleShare returns the share sheet payload with the preview image.
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.cfg.ShareEnabled {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, ErrShareDisabled)
		return
	}
	wk := h.currentWeek()
	data, err := h.renderPNG(wk)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeExportFailed, ErrFailedToExport)
		return
	}
	writeJSON(w, http.StatusOK, export.SharePayload(wk.Window.Label, data))
}

// HandleDownload handles export downloads in ICS, CSV, JSON, XLSX or PNG
// format. ICS accepts reminderMinutes.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	format := r.URL.Query().Get("format")
	if _, ok := export.ContentType(format); !ok {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, ErrInvalidFormat)
		return
	}

	wk := h.currentWeek()
	var (
		data []byte
		err  error
	)
	switch format {
	case export.FormatPNG:
		data, err = h.renderPNG(wk)
	case export.FormatICS:
		opts := export.ICSOptions{}
		if v := r.URL.Query().Get("reminderMinutes"); v != "" {
			opts.ReminderMinutes, err = strconv.Atoi(v)
			if err != nil || opts.ReminderMinutes < 0 {
				writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "Invalid reminderMinutes")
				return
			}
		}
		data = export.ICS(wk, opts)
		observability.RecordExport(format, nil)
	default:
		data, err = export.Render(format, wk)
		observability.RecordExport(format, err)
		if err != nil {
			h.logger.Printf("Error generating %s export: %v", format, err)
		}
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrTypeExportFailed, ErrFailedToExport)
		return
	}
	serveArtifact(w, r, format, export.FileName(wk.Window.Label, format), data, true)
}

// HandleSubscribe serves the displayed week as an inline ICS feed for
// calendar subscriptions.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	data := export.ICS(h.currentWeek(), export.ICSOptions{Subscription: true})
	observability.RecordExport(export.FormatICS, nil)
	// Calendar apps need inline content for subscriptions.
	serveArtifact(w, r, export.FormatICS, "", data, false)
}

// serveArtifact writes data with its ETag, answering 304 when the client
// already holds it.
func serveArtifact(w http.ResponseWriter, r *http.Request, format, fileName string, data []byte, attachment bool) {
	contentType, _ := export.ContentType(format)
	etag := export.ETag(data)

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if attachment {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}
	_, _ = w.Write(data)
}
