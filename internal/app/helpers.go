package app

import (
	"encoding/json"
	"log"
	"net/http"
)

// RequireMethod validates that the request uses one of the given methods.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, ErrTypeMethodNotAllowed, ErrMethodNotAllowed)
	return false
}

// RequireWritable rejects mutations in read-only mode.
func (h *Handler) RequireWritable(w http.ResponseWriter) bool {
	if h.cfg.ReadOnly {
		writeError(w, http.StatusForbidden, ErrTypeReadOnly, ErrReadOnlyMode)
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, ErrInvalidBody)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, errType, detail string) {
	writeJSON(w, status, ErrorResponse{Type: errType, Detail: detail})
}

func writeStatus(w http.ResponseWriter, status string) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: status})
}
