package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GitAbdalla/booking-system/internal/domain"
)

// BookingService is the minimal interface needed by the booking endpoints.
type BookingService interface {
	CreateBooking(ctx context.Context, userID, classID string) (domain.BookingDetail, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (domain.BookingDetail, error)
	GetBooking(ctx context.Context, bookingID string) (domain.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.BookingDetail, error)
	ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error)
}

// HandleBookings serves POST /bookings (reserve) and GET /bookings
// (admin listing). Mounted behind RequireAuth.
func HandleBookings(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req createBookingRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.ClassID == "" {
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "class_id is required")
				return
			}

			detail, err := svc.CreateBooking(r.Context(), identity.UserID, req.ClassID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toBookingResponse(detail))
		case http.MethodGet:
			if identity.Role != domain.RoleAdmin {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
			details, err := svc.ListAllBookings(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponses(details))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleBookingSubroutes serves GET /bookings/me, GET /bookings/{id} and
// POST /bookings/{id}/cancel. Mounted behind RequireAuth.
func HandleBookingSubroutes(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) == 2 && parts[0] == "bookings" && parts[1] == "me":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			details, err := svc.ListUserBookings(r.Context(), identity.UserID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponses(details))
		case len(parts) == 2 && parts[0] == "bookings" && parts[1] != "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			detail, err := svc.GetBooking(r.Context(), parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponse(detail))
		case len(parts) == 3 && parts[0] == "bookings" && parts[1] != "" && parts[2] == "cancel":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			detail, err := svc.CancelBooking(r.Context(), identity.UserID, parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toBookingResponse(detail))
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type createBookingRequest struct {
	ClassID string `json:"class_id"`
}
