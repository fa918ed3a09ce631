package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/planj/planj/internal/rest"
	"github.com/planj/planj/pkg/category"
	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	sharing *Sharing
}

type AddScheduleDTO struct {
	CategoryUuid string    `json:"categoryUuid"`
	Title        string    `json:"title"`
	EndAt        time.Time `json:"endAt"`
}

type AddScheduleResponseDTO struct {
	ScheduleUuid string `json:"scheduleUuid"`
}

type UpdateScheduleDTO struct {
	ScheduleUuid  string     `json:"scheduleUuid"`
	CategoryUuid  string     `json:"categoryUuid"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartAt       *time.Time `json:"startAt,omitempty"`
	EndAt         time.Time  `json:"endAt"`
	StartLocation *Place     `json:"startLocation,omitempty"`
	EndLocation   *Place     `json:"endLocation,omitempty"`
	Repetition    *string    `json:"repetition,omitempty"`
	Participants  []string   `json:"participants,omitempty"`
}

type ViewDTO struct {
	ScheduleUuid  string     `json:"scheduleUuid"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartAt       *time.Time `json:"startAt,omitempty"`
	EndAt         time.Time  `json:"endAt"`
	Failed        bool       `json:"failed"`
	Repeated      bool       `json:"repeated"`
	Shared        bool       `json:"shared"`
	StartLocation *Place     `json:"startLocation,omitempty"`
	EndLocation   *Place     `json:"endLocation,omitempty"`
}

type ParticipantDTO struct {
	Email string `json:"email"`
}

func NewHandler(service Service, sharing *Sharing) *Handler {
	return &Handler{service: service, sharing: sharing}
}

func (h *Handler) AddSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Adding schedule")

	var dto AddScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	scheduleUuid, err := h.service.AddSchedule(r.Context(), dto.CategoryUuid, dto.Title, dto.EndAt)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(AddScheduleResponseDTO{ScheduleUuid: scheduleUuid}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto UpdateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.service.UpdateSchedule(r.Context(), UpdateRequest{
		ScheduleUuid:  dto.ScheduleUuid,
		CategoryUuid:  dto.CategoryUuid,
		Title:         dto.Title,
		Description:   dto.Description,
		StartAt:       dto.StartAt,
		EndAt:         dto.EndAt,
		StartLocation: dto.StartLocation,
		EndLocation:   dto.EndLocation,
		Repetition:    dto.Repetition,
		Participants:  dto.Participants,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	if err := h.service.DeleteSchedule(r.Context(), vars["scheduleUuid"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	h.getViews(w, r, h.service.GetDaily)
}

func (h *Handler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	h.getViews(w, r, h.service.GetWeekly)
}

func (h *Handler) getViews(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, date time.Time) ([]View, error)) {
	w.Header().Set("Content-Type", "application/json")

	dateString := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be in YYYY-MM-DD format",
		})
		return
	}

	views, err := fetch(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	dtos := make([]ViewDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, viewToDTO(v))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	var dto ParticipantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.sharing.UnInvite(r.Context(), vars["scheduleUuid"], dto.Email); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StopSharing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	if err := h.sharing.StopSharing(r.Context(), vars["scheduleUuid"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrInvalidTimeWindow):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrMetadataNotFound) ||
		errors.Is(err, category.ErrCategoryNotFound) || errors.Is(err, user.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func viewToDTO(v View) ViewDTO {
	dto := ViewDTO{
		ScheduleUuid: v.Uuid,
		Title:        v.Title,
		Description:  v.Description,
		StartAt:      v.StartAt,
		EndAt:        v.EndAt,
		Failed:       v.Failed,
		Repeated:     v.Repeated,
		Shared:       v.Shared,
	}
	if v.Location != nil {
		dto.StartLocation = v.Location.Start
		dto.EndLocation = v.Location.End
	}
	return dto
}
