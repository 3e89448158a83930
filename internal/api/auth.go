package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/currently-core/internal/auth"
)

// handleRegister creates an account and returns it without the hash.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, ErrCodeConflict, "an account with that email already exists")
		return
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrWeakPassword):
		writeValidationError(w, err.Error())
		return
	case err != nil:
		s.logger.Error("registration failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	s.metrics.signups.Inc()
	s.recordActivity(r.Context(), user.ID, activityAccount, "registered", "", nil)
	s.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// handleLogin exchanges credentials for an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidationError(w, "email and password are required")
		return
	}

	token, user, err := s.auth.Login(r.Context(), req)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.metrics.countLogin(false)
		writeUnauthorized(w, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.metrics.countLogin(true)
	s.recordActivity(r.Context(), user.ID, activityAccount, "login", "", map[string]any{"ip": clientIP(r)})
	s.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, token)
}
