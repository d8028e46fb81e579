package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/GitAbdalla/booking-system/internal/app"
	"github.com/GitAbdalla/booking-system/internal/domain"
)

// ClassService is the minimal interface needed by the class endpoints.
type ClassService interface {
	CreateClass(ctx context.Context, in app.CreateClassInput) (domain.Class, error)
	GetClass(ctx context.Context, classID string) (domain.Class, error)
	ListClasses(ctx context.Context, filter domain.ClassFilter) ([]domain.Class, error)
	ListUpcoming(ctx context.Context) ([]domain.Class, error)
	CheckAvailability(ctx context.Context, classID string) (domain.Availability, error)
}

// HandleClasses serves GET /classes (public listing with filters) and
// POST /classes (admin creation).
func HandleClasses(svc ClassService, tokens TokenParser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			filter, ok := parseClassFilter(w, r)
			if !ok {
				return
			}
			classes, err := svc.ListClasses(r.Context(), filter)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toClassResponses(classes))
		case http.MethodPost:
			identity, ok := authenticate(tokens, w, r)
			if !ok {
				return
			}
			if identity.Role != domain.RoleAdmin {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}

			var req createClassRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			in, ok := req.toInput(w)
			if !ok {
				return
			}

			class, err := svc.CreateClass(r.Context(), in)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toClassResponse(class))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleClassSubroutes serves /classes/upcoming, /classes/{id} and
// /classes/{id}/availability. All are public reads.
func HandleClassSubroutes(svc ClassService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) == 2 && parts[0] == "classes" && parts[1] == "upcoming":
			classes, err := svc.ListUpcoming(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toClassResponses(classes))
		case len(parts) == 2 && parts[0] == "classes" && parts[1] != "":
			class, err := svc.GetClass(r.Context(), parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toClassResponse(class))
		case len(parts) == 3 && parts[0] == "classes" && parts[1] != "" && parts[2] == "availability":
			availability, err := svc.CheckAvailability(r.Context(), parts[1])
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, availabilityResponse{
				Available:       availability.Available,
				AvailableSlots:  availability.AvailableSlots,
				Capacity:        availability.Capacity,
				CurrentBookings: availability.CurrentBookings,
			})
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

type createClassRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Capacity        int    `json:"capacity"`
	CreditsRequired int    `json:"credits_required,omitempty"`
}

func (req createClassRequest) toInput(w http.ResponseWriter) (app.CreateClassInput, bool) {
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "name is required")
		return app.CreateClassInput{}, false
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid start_time format")
		return app.CreateClassInput{}, false
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid end_time format")
		return app.CreateClassInput{}, false
	}
	return app.CreateClassInput{
		Name:            req.Name,
		Description:     req.Description,
		StartTime:       start,
		EndTime:         end,
		Capacity:        req.Capacity,
		CreditsRequired: req.CreditsRequired,
	}, true
}

func parseClassFilter(w http.ResponseWriter, r *http.Request) (domain.ClassFilter, bool) {
	var filter domain.ClassFilter
	q := r.URL.Query()

	if raw := q.Get("from_date"); raw != "" {
		from, err := parseDateOrTime(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid from_date format")
			return domain.ClassFilter{}, false
		}
		filter.From = &from
	}
	if raw := q.Get("to_date"); raw != "" {
		to, err := parseDateOrTime(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid to_date format")
			return domain.ClassFilter{}, false
		}
		filter.To = &to
	}
	switch availability := q.Get("availability"); availability {
	case "", string(domain.AvailabilityAll):
		filter.Availability = domain.AvailabilityAll
	case string(domain.AvailabilityAvailable):
		filter.Availability = domain.AvailabilityAvailable
	case string(domain.AvailabilityFull):
		filter.Availability = domain.AvailabilityFull
	default:
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "availability must be one of: all, available, full")
		return domain.ClassFilter{}, false
	}
	return filter, true
}

func parseDateOrTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func toClassResponses(classes []domain.Class) []classResponse {
	out := make([]classResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, toClassResponse(c))
	}
	return out
}

type availabilityResponse struct {
	Available       bool `json:"available"`
	AvailableSlots  int  `json:"available_slots"`
	Capacity        int  `json:"capacity"`
	CurrentBookings int  `json:"current_bookings"`
}
