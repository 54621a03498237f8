package server

import (
	"net/http"
	"testing"

	"lexdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHearing(t *testing.T) {
	env := newTestEnv(t)
	advocate := env.seedAdvocate(t, "adv-1")
	env.seedClient(t, "adv-1", "client-1")
	env.seedCase(t, "adv-1", "client-1", "case-1", "CS/1", types.CaseStatusActive)
	cookie := env.sessionCookie(t, advocate)

	t.Run("RequiresCaseAndDate", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/hearings", map[string]string{
			"title": "No case",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CaseMustBeInTenant", func(t *testing.T) {
		env.seedAdvocate(t, "adv-2")
		env.seedClient(t, "adv-2", "client-2")
		env.seedCase(t, "adv-2", "client-2", "case-foreign", "CS/F", types.CaseStatusActive)

		rec := env.do(t, http.MethodPost, "/api/hearings", map[string]string{
			"caseId": "case-foreign",
			"date":   "2026-09-10",
		}, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("DefaultsToScheduledWithDerivedTitle", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/hearings", map[string]string{
			"caseId": "case-1",
			"date":   "2026-09-10",
		}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)

		h := decodeBody[types.Hearing](t, rec)
		assert.Equal(t, types.HearingStatusScheduled, h.Status)
		assert.Equal(t, "Hearing for CS/1", h.Title)
		assert.Equal(t, "adv-1", h.AdvocateID)
	})

	t.Run("AcceptsRFC3339Dates", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/hearings", map[string]string{
			"caseId": "case-1",
			"title":  "Final arguments",
			"date":   "2026-10-01T10:30:00Z",
		}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)

		h := decodeBody[types.Hearing](t, rec)
		assert.Equal(t, 10, h.Date.Hour())
	})
}

func TestUpdateHearing(t *testing.T) {
	env := newTestEnv(t)
	advocate := env.seedAdvocate(t, "adv-1")
	env.seedClient(t, "adv-1", "client-1")
	env.seedCase(t, "adv-1", "client-1", "case-1", "CS/1", types.CaseStatusActive)
	cookie := env.sessionCookie(t, advocate)

	created := env.do(t, http.MethodPost, "/api/hearings", map[string]string{
		"caseId": "case-1",
		"date":   "2026-09-10",
	}, cookie)
	require.Equal(t, http.StatusCreated, created.Code)
	h := decodeBody[types.Hearing](t, created)

	rec := env.do(t, http.MethodPut, "/api/hearings/"+h.ID, map[string]string{
		"status": "adjourned",
		"notes":  "Bench unavailable",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[types.Hearing](t, rec)
	assert.Equal(t, types.HearingStatusAdjourned, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Bench unavailable", *updated.Notes)

	t.Run("InvalidStatusRejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/hearings/"+h.ID, map[string]string{
			"status": "postponed-forever",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DeleteRemovesIt", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/hearings/"+h.ID, nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/hearings/"+h.ID, nil, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
