package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/depiwhite/storefront/internal/auth"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse carries the display hint computed at sign-in. It is
// enough to show or hide the admin link; privileged routes re-verify on
// their own and never trust it.
type SessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthHandler struct {
	service  auth.Service
	validate *validator.Validate
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.handleRegister)
	router.Post("/auth/login", h.handleLogin)
	router.Post("/auth/logout", h.handleLogout)
	router.Get("/auth/session", h.handleSession)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode register request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	createdUser, err := h.service.SignUp(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user via service")

		clientMessage := "Failed to register user"
		if errors.Is(err, auth.ErrEmailExists) {
			clientMessage = "User already registered"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, UserResponse{
		ID:        createdUser.ID,
		Email:     createdUser.Email,
		CreatedAt: createdUser.CreatedAt,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode login request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.service.SignIn(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		clientMessage := "Failed to sign in"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			clientMessage = "Invalid email or password"
		} else {
			log.Error().Err(err).Msg("Failed to sign in via service")
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	setSessionCookie(w, session.Token, session.ExpiresAt)

	respondWithJSON(w, http.StatusOK, SessionResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		IsAdmin:   session.AdminHint,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token != "" {
		if err := h.service.SignOut(r.Context(), token); err != nil {
			log.Error().Err(err).Msg("Failed to sign out via service")
			respondWithError(w, http.StatusInternalServerError, "Failed to sign out")
			return
		}
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	session, err := h.service.CurrentSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			respondWithError(w, http.StatusUnauthorized, "Not signed in")
			return
		}
		log.Error().Err(err).Msg("Failed to get current session via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	respondWithJSON(w, http.StatusOK, SessionResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		IsAdmin:   session.AdminHint,
		ExpiresAt: session.ExpiresAt,
	})
}
