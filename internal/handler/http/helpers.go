package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/depiwhite/storefront/internal/auth"
	"github.com/depiwhite/storefront/internal/catalog"
	"github.com/depiwhite/storefront/internal/order"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Interface("payload", payload).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, order.ErrMissingShippingField),
		errors.Is(err, order.ErrInvalidTotal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			details[fieldErr.Field()] = "This field is required"
		case "email":
			details[fieldErr.Field()] = "Must be a valid email address"
		case "min":
			details[fieldErr.Field()] = fmt.Sprintf("Must be at least %s characters long", fieldErr.Param())
		default:
			details[fieldErr.Field()] = fmt.Sprintf("Failed validation on '%s'", fieldErr.Tag())
		}
	}
	return details
}

func respondValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return
	}
	log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "Internal validation error")
}
