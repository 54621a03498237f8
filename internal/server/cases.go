package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/storage"
	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

func decodeCaseFilter(r *http.Request) (types.CaseFilter, error) {
	var filter types.CaseFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		return types.CaseFilter{}, fmt.Errorf("invalid query parameters")
	}

	var err error
	if filter.From, err = parseDateParam(r.URL.Query().Get("from")); err != nil {
		return types.CaseFilter{}, err
	}
	if filter.To, err = parseDateParam(r.URL.Query().Get("to")); err != nil {
		return types.CaseFilter{}, err
	}

	return filter, nil
}

func (s *Service) handleListCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := decodeCaseFilter(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	cases, pagination, err := s.cases.Cases(ctx, tenantID, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list cases")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, listResponse{Items: cases, Pagination: pagination})
}

type createCaseRequest struct {
	CaseNumber       string  `json:"caseNumber"`
	Title            string  `json:"title"`
	CaseType         string  `json:"caseType"`
	ClientID         string  `json:"clientId"`
	RegistrationDate string  `json:"registrationDate"` // YYYY-MM-DD
	Description      *string `json:"description"`
	Court            *string `json:"court"`
	Judge            *string `json:"judge"`
	OpposingParty    *string `json:"opposingParty"`
	Priority         string  `json:"priority"`
}

func (req createCaseRequest) missingFields() []string {
	var missing []string
	if strings.TrimSpace(req.CaseNumber) == "" {
		missing = append(missing, "caseNumber")
	}
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.CaseType) == "" {
		missing = append(missing, "caseType")
	}
	if strings.TrimSpace(req.ClientID) == "" {
		missing = append(missing, "clientId")
	}
	if strings.TrimSpace(req.RegistrationDate) == "" {
		missing = append(missing, "registrationDate")
	}
	return missing
}

func (s *Service) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req createCaseRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		s.respondError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	registrationDate, err := time.Parse(dateLayout, req.RegistrationDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid registrationDate, expected YYYY-MM-DD")
		return
	}

	// The target client must exist inside the caller's tenant.
	if _, err := s.clients.Client(ctx, tenantID, req.ClientID); err != nil {
		s.respondMappedError(w, err)
		return
	}

	priority := types.CasePriority(req.Priority)
	if priority == "" {
		priority = types.CasePriorityMedium
	}

	c := &types.Case{
		AdvocateID:       tenantID,
		ClientID:         req.ClientID,
		CaseNumber:       strings.TrimSpace(req.CaseNumber),
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		CaseType:         strings.TrimSpace(req.CaseType),
		Court:            req.Court,
		Judge:            req.Judge,
		OpposingParty:    req.OpposingParty,
		Status:           types.CaseStatusActive,
		Priority:         priority,
		RegistrationDate: registrationDate,
		CreatedBy:        principal.ID,
	}

	if err := s.cases.CreateCase(ctx, c); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"case_id":     c.ID,
		"case_number": c.CaseNumber,
		"tenant_id":   tenantID,
	}).Info("case created")

	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Service) handleGetCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, c)
}

type updateCaseRequest struct {
	CaseNumber      *string `json:"caseNumber"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	CaseType        *string `json:"caseType"`
	Court           *string `json:"court"`
	Judge           *string `json:"judge"`
	OpposingParty   *string `json:"opposingParty"`
	Status          *string `json:"status"`
	Priority        *string `json:"priority"`
	NextHearingDate *string `json:"nextHearingDate"` // YYYY-MM-DD
}

func (s *Service) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	// Re-fetch scoped by tenant before mutating: cross-tenant targets
	// surface as not-found here.
	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req updateCaseRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if req.CaseNumber != nil {
		c.CaseNumber = strings.TrimSpace(*req.CaseNumber)
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.CaseType != nil {
		c.CaseType = strings.TrimSpace(*req.CaseType)
	}
	if req.Court != nil {
		c.Court = req.Court
	}
	if req.Judge != nil {
		c.Judge = req.Judge
	}
	if req.OpposingParty != nil {
		c.OpposingParty = req.OpposingParty
	}
	if req.Status != nil {
		status := types.CaseStatus(*req.Status)
		switch status {
		case types.CaseStatusActive, types.CaseStatusPending, types.CaseStatusOnHold, types.CaseStatusClosed:
			c.Status = status
		default:
			s.respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	if req.Priority != nil {
		c.Priority = types.CasePriority(*req.Priority)
	}
	if req.NextHearingDate != nil {
		next, err := parseDateParam(*req.NextHearingDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		c.NextHearingDate = next
	}

	if err := s.cases.UpdateCase(ctx, tenantID, c); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, c)
}

type deleteCaseResponse struct {
	Deleted      bool `json:"deleted"`
	FilesDeleted int  `json:"filesDeleted"`
	FileErrors   int  `json:"fileErrors"`
}

func (s *Service) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	caseID := flow.Param(ctx, "caseID")

	c, err := s.cases.Case(ctx, tenantID, caseID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	// Remote cleanup is best effort: partial or total failure must not
	// block the database deletion.
	res := s.purger.PurgePrefix(ctx, storage.CasePrefix(c.ID))

	if err := s.cases.DeleteCase(ctx, tenantID, caseID); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"case_id":       caseID,
		"tenant_id":     tenantID,
		"files_deleted": res.DeletedCount,
		"file_errors":   len(res.Errors),
	}).Info("case deleted")

	s.respondJSON(w, http.StatusOK, deleteCaseResponse{
		Deleted:      true,
		FilesDeleted: res.DeletedCount,
		FileErrors:   len(res.Errors),
	})
}

type addNoteRequest struct {
	Body string `json:"body"`
}

func (s *Service) handleAddCaseNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req addNoteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if strings.TrimSpace(req.Body) == "" {
		s.respondError(w, http.StatusBadRequest, "note body is required")
		return
	}

	c.Notes = append(c.Notes, types.CaseNote{
		ID:        utils.NanoIDSize(21),
		Body:      req.Body,
		AuthorID:  principal.ID,
		CreatedAt: time.Now(),
	})

	if err := s.cases.UpdateCase(ctx, tenantID, c); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, c)
}

type addTaskRequest struct {
	Title   string  `json:"title"`
	DueDate *string `json:"dueDate"` // YYYY-MM-DD
}

func (s *Service) handleAddCaseTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req addTaskRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "task title is required")
		return
	}

	task := types.CaseTask{
		ID:        utils.NanoIDSize(21),
		Title:     req.Title,
		CreatedAt: time.Now(),
	}

	if req.DueDate != nil {
		due, err := parseDateParam(*req.DueDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		task.DueDate = due
	}

	c.Tasks = append(c.Tasks, task)

	if err := s.cases.UpdateCase(ctx, tenantID, c); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, c)
}
