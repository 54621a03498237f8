package server

import (
	"net/http"
	"strings"
	"time"

	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

func decodeHearingFilter(r *http.Request) (types.HearingFilter, error) {
	var filter types.HearingFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		return types.HearingFilter{}, err
	}

	var err error
	if filter.From, err = parseDateParam(r.URL.Query().Get("from")); err != nil {
		return types.HearingFilter{}, err
	}
	if filter.To, err = parseDateParam(r.URL.Query().Get("to")); err != nil {
		return types.HearingFilter{}, err
	}

	return filter, nil
}

func (s *Service) handleListHearings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	filter, err := decodeHearingFilter(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	hearings, pagination, err := s.hearings.Hearings(ctx, tenantID, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list hearings")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, listResponse{Items: hearings, Pagination: pagination})
}

type createHearingRequest struct {
	CaseID   string  `json:"caseId"`
	Title    string  `json:"title"`
	Date     string  `json:"date"` // RFC 3339 or YYYY-MM-DD
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

func parseHearingDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Service) handleCreateHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req createHearingRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if strings.TrimSpace(req.CaseID) == "" || strings.TrimSpace(req.Date) == "" {
		s.respondError(w, http.StatusBadRequest, "missing required fields: caseId, date")
		return
	}

	date, parsed := parseHearingDate(req.Date)
	if !parsed {
		s.respondError(w, http.StatusBadRequest, "invalid date, expected RFC 3339 or YYYY-MM-DD")
		return
	}

	// The hearing must hang off a case inside the caller's tenant.
	c, err := s.cases.Case(ctx, tenantID, req.CaseID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Hearing for " + c.CaseNumber
	}

	h := &types.Hearing{
		AdvocateID: tenantID,
		CaseID:     c.ID,
		Title:      title,
		Date:       date,
		Location:   req.Location,
		Status:     types.HearingStatusScheduled,
		Notes:      req.Notes,
		CreatedBy:  principal.ID,
	}

	if err := s.hearings.CreateHearing(ctx, h); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"hearing_id": h.ID,
		"case_id":    c.ID,
		"tenant_id":  tenantID,
	}).Info("hearing scheduled")

	s.respondJSON(w, http.StatusCreated, h)
}

func (s *Service) handleGetHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	h, err := s.hearings.Hearing(ctx, tenantID, flow.Param(ctx, "hearingID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, h)
}

type updateHearingRequest struct {
	Title    *string `json:"title"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
}

func (s *Service) handleUpdateHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	h, err := s.hearings.Hearing(ctx, tenantID, flow.Param(ctx, "hearingID"))
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req updateHearingRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			s.respondError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		h.Title = title
	}
	if req.Date != nil {
		date, parsed := parseHearingDate(*req.Date)
		if !parsed {
			s.respondError(w, http.StatusBadRequest, "invalid date, expected RFC 3339 or YYYY-MM-DD")
			return
		}
		h.Date = date
	}
	if req.Location != nil {
		h.Location = req.Location
	}
	if req.Status != nil {
		status := types.HearingStatus(*req.Status)
		switch status {
		case types.HearingStatusScheduled, types.HearingStatusCompleted,
			types.HearingStatusAdjourned, types.HearingStatusCancelled:
			h.Status = status
		default:
			s.respondError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	if req.Notes != nil {
		h.Notes = req.Notes
	}

	if err := s.hearings.UpdateHearing(ctx, tenantID, h); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, h)
}

func (s *Service) handleDeleteHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.hearings.DeleteHearing(ctx, tenantID, flow.Param(ctx, "hearingID")); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
