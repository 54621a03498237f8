package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// backupPayload is the wire format of a tenant export. Password hashes
// and profile image keys never leave the database; restored accounts
// that do not already exist come back with a fresh random password.
type backupPayload struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Cases      []*types.Case    `json:"cases"`
	Clients    []*types.User    `json:"clients"`
	Team       []*types.User    `json:"team"`
	Hearings   []*types.Hearing `json:"hearings"`
}

func (s *Service) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	cases, err := s.cases.AllCases(ctx, tenantID)
	if err != nil {
		s.logger.WithError(err).Error("failed to export cases")
		s.internalServerError(w)
		return
	}

	clients, err := s.clients.AllClients(ctx, tenantID)
	if err != nil {
		s.logger.WithError(err).Error("failed to export clients")
		s.internalServerError(w)
		return
	}

	team, err := s.users.TeamMembers(ctx, tenantID)
	if err != nil {
		s.logger.WithError(err).Error("failed to export team members")
		s.internalServerError(w)
		return
	}

	hearings, err := s.hearings.AllHearings(ctx, tenantID)
	if err != nil {
		s.logger.WithError(err).Error("failed to export hearings")
		s.internalServerError(w)
		return
	}

	filename := fmt.Sprintf("lexdesk-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	s.respondJSON(w, http.StatusOK, backupPayload{
		ExportedAt: time.Now(),
		Cases:      cases,
		Clients:    clients,
		Team:       team,
		Hearings:   hearings,
	})
}

type backupImportResponse struct {
	CasesImported    int `json:"casesImported"`
	ClientsImported  int `json:"clientsImported"`
	TeamImported     int `json:"teamImported"`
	HearingsImported int `json:"hearingsImported"`
}

// handleBackupImport replaces the tenant's cases and hearings with the
// payload's and upserts client and team accounts by email. Rows are
// written exactly as given, so importing a payload that overlaps the
// current data duplicates nothing only because the wipe ran first.
func (s *Service) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, tenantID, ok := s.tenantFromRequest(w, r)
	if !ok {
		return
	}

	var payload backupPayload
	if err := decodeJSONBody(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid backup payload")
		return
	}

	currentEmail := ""
	if current, err := s.users.UserByID(ctx, principal.ID); err == nil {
		currentEmail = strings.ToLower(current.Email)
	}

	clientsImported := 0
	for _, client := range payload.Clients {
		// Never let a restore rewrite the account performing it.
		if strings.ToLower(client.Email) == currentEmail {
			continue
		}

		client.AdvocateID = &tenantID
		client.Roles = []types.Role{types.RoleClient}
		if client.PasswordHash == "" {
			client.PasswordHash = generatedPasswordHash()
		}

		if err := s.users.UpsertUserByEmail(ctx, client); err != nil {
			s.logger.WithError(err).WithField("email", client.Email).Error("failed to restore client account")
			s.internalServerError(w)
			return
		}
		clientsImported++
	}

	teamImported := 0
	for _, member := range payload.Team {
		if strings.ToLower(member.Email) == currentEmail {
			continue
		}

		member.AdvocateID = &tenantID
		member.Roles = []types.Role{types.RoleTeamMember}
		if member.PasswordHash == "" {
			member.PasswordHash = generatedPasswordHash()
		}

		if err := s.users.UpsertUserByEmail(ctx, member); err != nil {
			s.logger.WithError(err).WithField("email", member.Email).Error("failed to restore team account")
			s.internalServerError(w)
			return
		}
		teamImported++
	}

	// Hearings reference cases, so they go first on the way out and
	// last on the way back in.
	if err := s.hearings.DeleteAllHearings(ctx, tenantID); err != nil {
		s.logger.WithError(err).Error("failed to clear hearings before restore")
		s.internalServerError(w)
		return
	}
	if err := s.cases.DeleteAllCases(ctx, tenantID); err != nil {
		s.logger.WithError(err).Error("failed to clear cases before restore")
		s.internalServerError(w)
		return
	}

	for _, c := range payload.Cases {
		c.AdvocateID = tenantID
		if c.ID == "" {
			c.ID = utils.NanoID()
		}
		if c.Notes == nil {
			c.Notes = []types.CaseNote{}
		}
		if c.Tasks == nil {
			c.Tasks = []types.CaseTask{}
		}
	}
	if err := s.cases.CreateCases(ctx, payload.Cases); err != nil {
		s.logger.WithError(err).Error("failed to restore cases")
		s.internalServerError(w)
		return
	}

	for _, h := range payload.Hearings {
		h.AdvocateID = tenantID
		if h.ID == "" {
			h.ID = utils.NanoID()
		}
		if h.Status == "" {
			h.Status = types.HearingStatusScheduled
		}
	}
	if err := s.hearings.CreateHearings(ctx, payload.Hearings); err != nil {
		s.logger.WithError(err).Error("failed to restore hearings")
		s.internalServerError(w)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"cases":     len(payload.Cases),
		"clients":   clientsImported,
		"team":      teamImported,
		"hearings":  len(payload.Hearings),
	}).Info("backup imported")

	s.respondJSON(w, http.StatusOK, backupImportResponse{
		CasesImported:    len(payload.Cases),
		ClientsImported:  clientsImported,
		TeamImported:     teamImported,
		HearingsImported: len(payload.Hearings),
	})
}

func generatedPasswordHash() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(utils.NanoIDSize(16)), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}
