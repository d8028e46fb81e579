package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GitAbdalla/booking-system/internal/app"
	"github.com/GitAbdalla/booking-system/internal/domain"
)

// UserService is the minimal interface needed by the user endpoints.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (app.Profile, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetCredits(ctx context.Context, userID string, credits int) (domain.User, error)
}

// HandleUsers serves GET /users, the admin listing. Mounted behind
// RequireAuth and RequireRole(admin).
func HandleUsers(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		resp := make([]userResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleUserSubroutes serves GET /users/me (any authenticated user) plus
// the admin-only GET /users/{id} and PATCH /users/{id}/credits. Mounted
// behind RequireAuth.
func HandleUserSubroutes(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) == 2 && parts[0] == "users" && parts[1] == "me":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			profile, err := svc.GetProfile(r.Context(), identity.UserID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, profileResponse{
				User:     toUserResponse(profile.User),
				Bookings: toBookingResponses(profile.Bookings),
			})
		case len(parts) == 2 && parts[0] == "users" && parts[1] != "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if identity.Role != domain.RoleAdmin {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
			user, err := svc.GetUser(r.Context(), parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toUserResponse(user))
		case len(parts) == 3 && parts[0] == "users" && parts[1] != "" && parts[2] == "credits":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if identity.Role != domain.RoleAdmin {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}

			var req updateCreditsRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			user, err := svc.SetCredits(r.Context(), parts[1], req.Credits)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toUserResponse(user))
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type updateCreditsRequest struct {
	Credits int `json:"credits"`
}

type profileResponse struct {
	User     userResponse      `json:"user"`
	Bookings []bookingResponse `json:"bookings"`
}
