package server

import (
	"errors"
	"net/http"

	"lexdesk/pkg/types"

	"github.com/alexedwards/flow"
)

// The portal is the read-only surface for clients. Everything here is
// double-scoped: by the advocate tenant the client belongs to, and by
// the client's own ID. A case belonging to another client of the same
// advocate is as invisible as one from another tenant.

func (s *Service) portalCase(w http.ResponseWriter, r *http.Request) (*types.Case, bool) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return nil, false
	}

	c, err := s.cases.Case(ctx, tenantID, flow.Param(ctx, "caseID"))
	if err != nil {
		s.respondMappedError(w, err)
		return nil, false
	}

	// Ownership failures answer with the same sentinel as absence so
	// a client cannot probe for other clients' case IDs.
	if c.ClientID != principal.ID {
		s.respondMappedError(w, types.ErrCaseNotFound)
		return nil, false
	}

	return c, true
}

func (s *Service) handlePortalListCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	cases, err := s.cases.CasesByClient(ctx, tenantID, principal.ID)
	if err != nil {
		if errors.Is(err, types.ErrCaseNotFound) {
			s.respondJSON(w, http.StatusOK, []*types.Case{})
			return
		}
		s.logger.WithError(err).Error("failed to list portal cases")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, cases)
}

func (s *Service) handlePortalGetCase(w http.ResponseWriter, r *http.Request) {
	c, ok := s.portalCase(w, r)
	if !ok {
		return
	}

	s.respondJSON(w, http.StatusOK, c)
}

func (s *Service) handlePortalListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, ok := s.portalCase(w, r)
	if !ok {
		return
	}

	docs, err := s.documents.DocumentsByCase(ctx, c.AdvocateID, c.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list portal documents")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, s.documentResponses(ctx, docs))
}
