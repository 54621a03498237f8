package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"lexdesk/pkg/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Items      any              `json:"items"`
	Pagination types.Pagination `json:"pagination"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

// internalServerError deliberately leaks nothing; the cause is logged
// at the call site.
func (s *Service) internalServerError(w http.ResponseWriter) {
	s.respondError(w, http.StatusInternalServerError, "internal server error")
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
// Cross-tenant access comes back as the not-found sentinel from the
// store layer and therefore maps to 404, never 403: existence must not
// leak across tenants. Unknown errors map to 0 so callers fall through
// to the generic 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrCaseNotFound),
		errors.Is(err, types.ErrClientNotFound),
		errors.Is(err, types.ErrDocumentNotFound),
		errors.Is(err, types.ErrHearingNotFound),
		errors.Is(err, types.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, types.ErrDuplicateCaseNumber),
		errors.Is(err, types.ErrDuplicateEmail):
		return http.StatusConflict, err.Error()

	case errors.Is(err, types.ErrHasActiveCases),
		errors.Is(err, types.ErrInvalidTenantConfig):
		return http.StatusBadRequest, err.Error()
	}

	return 0, ""
}

// respondMappedError answers with the taxonomy mapping when the error
// is a known domain error, and a bare 500 otherwise.
func (s *Service) respondMappedError(w http.ResponseWriter, err error) {
	if status, message := statusForError(err); status != 0 {
		s.respondError(w, status, message)
		return
	}

	s.logger.WithError(err).Error("unexpected error in handler")
	s.internalServerError(w)
}

func decodeJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
