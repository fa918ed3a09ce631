package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/planj/planj/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	authService Service
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

type TokenDTO struct {
	Token string `json:"token"`
}

func NewHandler(authService Service) *Handler {
	return &Handler{authService: authService}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Registering user")

	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, token, err := h.authService.Register(r.Context(), dto.Email, dto.Password, dto.Nickname)
	if errors.Is(err, ErrEmailTaken) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Email already registered"})
		return
	} else if errors.Is(err, ErrInvalidCredentials) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Email and password are required"})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(TokenDTO{Token: token}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.authService.Login(r.Context(), dto.Email, dto.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid email or password"})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(TokenDTO{Token: token}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if err := h.authService.Logout(r.Context(), token); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.authService.DeleteAccount(r.Context(), dto.Email, dto.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Invalid email or password"})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
