package export

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/planj/planj/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ExportICal(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		h.badDate(w)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		h.badDate(w)
		return
	}
	// The window is inclusive of the final day.
	to = to.AddDate(0, 0, 1).Add(-time.Millisecond)

	document, err := h.service.ExportICal(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="planj.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(document))
}

func (h *Handler) badDate(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   "Invalid date format",
		Details: "'from' and 'to' must be in YYYY-MM-DD format",
	})
}
