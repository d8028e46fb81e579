package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GitAbdalla/booking-system/internal/app"
)

// AuthService is the minimal interface needed by the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, email, password string) (app.AuthResult, error)
	Login(ctx context.Context, email, password string) (app.AuthResult, error)
}

// HandleRegister returns an HTTP handler for account creation.
func HandleRegister(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		req, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		result, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{
			AccessToken: result.AccessToken,
			User:        toUserResponse(result.User),
		})
	}
}

// HandleLogin returns an HTTP handler for credential exchange.
func HandleLogin(svc AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		req, ok := decodeCredentials(w, r)
		if !ok {
			return
		}

		result, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{
			AccessToken: result.AccessToken,
			User:        toUserResponse(result.User),
		})
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return credentialsRequest{}, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "email and password are required")
		return credentialsRequest{}, false
	}
	return req, true
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}
