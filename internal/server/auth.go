package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"lexdesk/internal/tenant"
	"lexdesk/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a main-advocate account, the owner of a fresh
// tenant. Team members and clients are created by that advocate later.
func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if len(req.Password) < 8 {
		s.respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.internalServerError(w)
		return
	}

	user := &types.User{
		Roles:        []types.Role{types.RoleAdvocate},
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.logger.WithField("user_id", user.ID).Info("advocate registered")

	s.respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      *types.User      `json:"user"`
	Principal tenant.Principal `json:"principal"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	user, err := s.users.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.WithError(err).Error("failed to fetch user for login")
		s.internalServerError(w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	principal := tenant.FromUser(user)

	encoded, err := s.cookie.Encode(s.config.CookieName, principal)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).Warn("failed to record last login")
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")

	s.respondJSON(w, http.StatusOK, loginResponse{User: user, Principal: principal})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}
