package server

import (
	"net/http"
	"net/mail"
	"strings"

	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) handleListTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	members, err := s.users.TeamMembers(ctx, tenantID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list team members")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, members)
}

type createTeamMemberRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

func (s *Service) handleCreateTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req createTeamMemberRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "missing required fields: name, email")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	password := req.Password
	if password == "" {
		password = utils.NanoIDSize(16)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash team member password")
		s.internalServerError(w)
		return
	}

	member := &types.User{
		AdvocateID:   &tenantID,
		Roles:        []types.Role{types.RoleTeamMember},
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedBy:    &principal.ID,
	}

	if err := s.users.CreateUser(ctx, member); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   member.ID,
		"tenant_id": tenantID,
	}).Info("team member created")

	s.respondJSON(w, http.StatusCreated, member)
}
