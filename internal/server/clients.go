package server

import (
	"net/http"
	"net/mail"
	"strings"

	"lexdesk/internal/storage"
	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) handleListClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var filter types.ClientFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	clients, pagination, err := s.clients.Clients(ctx, tenantID, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list clients")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, listResponse{Items: clients, Pagination: pagination})
}

type createClientRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password string  `json:"password"`
}

func (s *Service) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req createClientRequest
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

	// Clients get a generated portal password unless one was supplied.
	password := req.Password
	if password == "" {
		password = utils.NanoIDSize(16)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash client password")
		s.internalServerError(w)
		return
	}

	client := &types.User{
		AdvocateID:   &tenantID,
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: string(hash),
		CreatedBy:    &principal.ID,
	}

	if err := s.clients.CreateClient(ctx, client); err != nil {
		s.respondMappedError(w, err)
		return
	}

	advocate, err := s.users.UserByID(ctx, tenantID)
	advocateName := "Your advocate"
	if err == nil {
		advocateName = advocate.Name
	}

	s.notifier.ClientCreated(client.Email, client.Name, advocateName)

	s.logger.WithFields(logrus.Fields{
		"client_id": client.ID,
		"tenant_id": tenantID,
	}).Info("client created")

	s.respondJSON(w, http.StatusCreated, client)
}

func (s *Service) handleGetClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	client, err := s.clients.Client(ctx, tenantID, flow.Param(ctx, "clientID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, client)
}

type updateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (s *Service) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	client, err := s.clients.Client(ctx, tenantID, flow.Param(ctx, "clientID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req updateClientRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			s.respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		client.Name = name
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Address != nil {
		client.Address = req.Address
	}

	if err := s.clients.UpdateClient(ctx, tenantID, client); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, client)
}

type deleteClientResponse struct {
	Deleted      bool `json:"deleted"`
	CasesDeleted int  `json:"casesDeleted"`
	FilesDeleted int  `json:"filesDeleted"`
	FileErrors   int  `json:"fileErrors"`
}

// handleDeleteClient cascades: every case the client owns in this
// tenant is deleted, remote files are purged per case plus the client's
// own profile prefix, then the client record goes. Deletion is refused
// outright while any case is in an active, pending, or on-hold state.
func (s *Service) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	clientID := flow.Param(ctx, "clientID")

	client, err := s.clients.Client(ctx, tenantID, clientID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	active, err := s.cases.ActiveCaseCount(ctx, tenantID, clientID)
	if err != nil {
		s.logger.WithError(err).Error("failed to count active cases for client delete")
		s.internalServerError(w)
		return
	}
	if active > 0 {
		s.respondMappedError(w, types.ErrHasActiveCases)
		return
	}

	caseIDs, err := s.cases.DeleteCasesByClient(ctx, tenantID, clientID)
	if err != nil {
		s.logger.WithError(err).Error("failed to delete client cases")
		s.internalServerError(w)
		return
	}

	filesDeleted := 0
	fileErrors := 0
	for _, caseID := range caseIDs {
		res := s.purger.PurgePrefix(ctx, storage.CasePrefix(caseID))
		filesDeleted += res.DeletedCount
		fileErrors += len(res.Errors)
	}

	res := s.purger.PurgePrefix(ctx, storage.ProfilePrefix(clientID))
	filesDeleted += res.DeletedCount
	fileErrors += len(res.Errors)

	if err := s.clients.DeleteClient(ctx, tenantID, clientID); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.notifier.ClientDeleted(client.Email, client.Name)

	s.logger.WithFields(logrus.Fields{
		"client_id":     clientID,
		"tenant_id":     tenantID,
		"cases_deleted": len(caseIDs),
		"files_deleted": filesDeleted,
		"file_errors":   fileErrors,
	}).Info("client deleted")

	s.respondJSON(w, http.StatusOK, deleteClientResponse{
		Deleted:      true,
		CasesDeleted: len(caseIDs),
		FilesDeleted: filesDeleted,
		FileErrors:   fileErrors,
	})
}
