package friend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planj/planj/internal/rest"
	"github.com/planj/planj/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

type FriendDTO struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Adding friend")

	var dto FriendDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := h.service.Add(r.Context(), dto.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "No user with that email"})
		return
	} else if errors.Is(err, ErrAlreadyFriends) || errors.Is(err, ErrSelfFriend) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(FriendDTO{Email: added.Email, Nickname: added.Nickname}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	friends, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]FriendDTO, 0, len(friends))
	for _, f := range friends {
		dtos = append(dtos, FriendDTO{Email: f.Email, Nickname: f.Nickname})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto FriendDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.service.Delete(r.Context(), dto.Email)
	if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, ErrNotFriends) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
