package server

import (
	"errors"
	"net/http"
	"testing"

	"lexdesk/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"CaseNotFound", types.ErrCaseNotFound, http.StatusNotFound},
		{"ClientNotFound", types.ErrClientNotFound, http.StatusNotFound},
		{"DocumentNotFound", types.ErrDocumentNotFound, http.StatusNotFound},
		{"HearingNotFound", types.ErrHearingNotFound, http.StatusNotFound},
		{"UserNotFound", types.ErrUserNotFound, http.StatusNotFound},
		{"DuplicateCaseNumber", types.ErrDuplicateCaseNumber, http.StatusConflict},
		{"DuplicateEmail", types.ErrDuplicateEmail, http.StatusConflict},
		{"HasActiveCases", types.ErrHasActiveCases, http.StatusBadRequest},
		{"InvalidTenantConfig", types.ErrInvalidTenantConfig, http.StatusBadRequest},
		{"WrappedSentinel", errors.Join(errors.New("context"), types.ErrCaseNotFound), http.StatusNotFound},
		{"UnknownErrorFallsThrough", errors.New("pg connection reset"), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := statusForError(tc.err)
			assert.Equal(t, tc.status, status)

			if tc.status == 0 {
				// Unknown errors must not leak their message.
				assert.Empty(t, message)
			} else {
				assert.NotEmpty(t, message)
			}
		})
	}
}
