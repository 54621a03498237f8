package server

import (
	"net/http"
	"testing"

	"lexdesk/internal/tenant"
	"lexdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortal(t *testing.T) {
	env := newTestEnv(t)

	env.seedAdvocate(t, "adv-1")
	me := env.seedClient(t, "adv-1", "client-me")
	env.seedClient(t, "adv-1", "client-other")

	env.seedCase(t, "adv-1", "client-me", "case-mine", "CS/MINE", types.CaseStatusActive)
	env.seedCase(t, "adv-1", "client-other", "case-theirs", "CS/THEIRS", types.CaseStatusActive)

	cookie := env.sessionCookie(t, tenant.FromUser(me))

	t.Run("ListsOnlyOwnCases", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/portal/cases", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		cases := decodeBody[[]types.Case](t, rec)
		require.Len(t, cases, 1)
		assert.Equal(t, "case-mine", cases[0].ID)
	})

	t.Run("ReadsOwnCase", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/portal/cases/case-mine", nil, cookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("AnotherClientsCaseIs404", func(t *testing.T) {
		// Same tenant, different client: must look exactly like a
		// nonexistent case.
		rec := env.do(t, http.MethodGet, "/api/portal/cases/case-theirs", nil, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/portal/cases/case-theirs/documents", nil, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("PortalIsReadOnly", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/portal/cases/case-mine", nil, cookie)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
