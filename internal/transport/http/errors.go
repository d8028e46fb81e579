package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GitAbdalla/booking-system/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidTime          = "invalid_time"
	codeInvalidID            = "invalid_id"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codeEmailTaken           = "email_taken"
	codeInvalidCredentials   = "invalid_credentials"
	codeInsufficientCredits  = "insufficient_credits"
	codeClassFull            = "class_full"
	codeOverlappingBooking   = "overlapping_booking"
	codeDuplicateBooking     = "duplicate_booking"
	codeInvalidState         = "invalid_state"
	codeInvalidTimeRange     = "invalid_time_range"
	codeClassInPast          = "class_in_past"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidCredits       = "invalid_credits"
	codeStoreConflict        = "store_conflict"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps domain errors to transport status codes. Anything
// unmapped is an internal error and never leaks its message.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient domain.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		writeError(w, http.StatusBadRequest, codeInsufficientCredits, insufficient.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrClassNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, domain.ErrClassFull):
		writeError(w, http.StatusBadRequest, codeClassFull, err.Error())
	case errors.Is(err, domain.ErrOverlappingBooking):
		writeError(w, http.StatusBadRequest, codeOverlappingBooking, err.Error())
	case errors.Is(err, domain.ErrDuplicateBooking):
		writeError(w, http.StatusBadRequest, codeDuplicateBooking, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrBookingAlreadyCancelled),
		errors.Is(err, domain.ErrBookingCompleted):
		writeError(w, http.StatusBadRequest, codeInvalidState, err.Error())
	case errors.Is(err, domain.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, codeInvalidTimeRange, err.Error())
	case errors.Is(err, domain.ErrClassInPast):
		writeError(w, http.StatusBadRequest, codeClassInPast, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidCredits):
		writeError(w, http.StatusBadRequest, codeInvalidCredits, err.Error())
	case errors.Is(err, domain.ErrStoreConflict):
		writeError(w, http.StatusConflict, codeStoreConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
