package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lexdesk/internal/store"
	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the login password for every seeded account.
const DemoPassword = "password123"

// Fixed IDs so reseeding is idempotent.
// To generate new IDs: `go run ./cmd/lexdesk nanoid`
const (
	demoAdvocateID = "Xp2VbGJ0qTAYwM4uC9fRkLs6DnE1hZo8"
	demoClientOne  = "a7KmQ3tYxWvB5cN8dF1gHj2kLp4rSz6U"
	demoClientTwo  = "B9nR2wEy5TqU8iOp1aSd4fGh7jKl0zXc"
	demoTeamMember = "m3Vb6nQ9wEr2tYu5iOp8aSd1fGh4jKl7"
)

type Summary struct {
	Users    int
	Cases    int
	Hearings int
}

// Demo seeds a complete demo tenant: one advocate, one team member, two
// clients, a handful of cases, and upcoming hearings. Users are upserted
// by ID, cases and hearings only when absent, so the command is safe to
// re-run.
func Demo(ctx context.Context, users *store.UserRepository, cases *store.CaseRepository, hearings *store.HearingRepository) (*Summary, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	summary := &Summary{}

	demoUsers := []*types.User{
		{
			ID:    demoAdvocateID,
			Roles: []types.Role{types.RoleAdvocate},
			Email: "advocate@lexdesk.demo",
			Name:  "Priya Raman",
			Phone: utils.StringPtr("+91-98400-11111"),
		},
		{
			ID:         demoTeamMember,
			AdvocateID: utils.StringPtr(demoAdvocateID),
			Roles:      []types.Role{types.RoleTeamMember},
			Email:      "paralegal@lexdesk.demo",
			Name:       "Arjun Nair",
			CreatedBy:  utils.StringPtr(demoAdvocateID),
		},
		{
			ID:         demoClientOne,
			AdvocateID: utils.StringPtr(demoAdvocateID),
			Roles:      []types.Role{types.RoleClient},
			Email:      "client.mehta@lexdesk.demo",
			Name:       "Rohan Mehta",
			Phone:      utils.StringPtr("+91-98400-22222"),
			Address:    utils.StringPtr("14 Marine Drive, Mumbai"),
			CreatedBy:  utils.StringPtr(demoAdvocateID),
		},
		{
			ID:         demoClientTwo,
			AdvocateID: utils.StringPtr(demoAdvocateID),
			Roles:      []types.Role{types.RoleClient},
			Email:      "client.iyer@lexdesk.demo",
			Name:       "Lakshmi Iyer",
			Phone:      utils.StringPtr("+91-98400-33333"),
			Address:    utils.StringPtr("7 Residency Road, Bengaluru"),
			CreatedBy:  utils.StringPtr(demoAdvocateID),
		},
	}

	for _, u := range demoUsers {
		existing, err := users.UserByID(ctx, u.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return nil, fmt.Errorf("failed to fetch demo user %s: %w", u.ID, err)
			}

			u.PasswordHash = string(hash)
			if err := users.CreateUser(ctx, u); err != nil {
				return nil, fmt.Errorf("failed to create demo user %s: %w", u.Email, err)
			}
			summary.Users++
			continue
		}

		existing.Name = u.Name
		existing.Phone = u.Phone
		existing.Address = u.Address
		existing.Roles = u.Roles
		if err := users.UpdateUser(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update demo user %s: %w", u.Email, err)
		}
		summary.Users++
	}

	demoCases := []*types.Case{
		{
			ID:               "c1Qw8eRt5yUi2oPa6sDf9gHj3kLz0xCv",
			AdvocateID:       demoAdvocateID,
			ClientID:         demoClientOne,
			CaseNumber:       "CS/2026/0142",
			Title:            "Mehta v. Horizon Builders",
			Description:      utils.StringPtr("Recovery of advance paid for a stalled residential project"),
			CaseType:         "civil",
			Court:            utils.StringPtr("Bombay High Court"),
			Judge:            utils.StringPtr("Hon. Justice Deshpande"),
			OpposingParty:    utils.StringPtr("Horizon Builders Pvt Ltd"),
			Status:           types.CaseStatusActive,
			Priority:         types.CasePriorityHigh,
			RegistrationDate: time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC),
			CreatedBy:        demoAdvocateID,
		},
		{
			ID:               "d4Er7tYu1iOp5aSd8fGh2jKl6zXc9vBn",
			AdvocateID:       demoAdvocateID,
			ClientID:         demoClientOne,
			CaseNumber:       "ARB/2025/0077",
			Title:            "Mehta Freight arbitration",
			CaseType:         "arbitration",
			Status:           types.CaseStatusClosed,
			Priority:         types.CasePriorityMedium,
			RegistrationDate: time.Date(2025, time.July, 21, 0, 0, 0, 0, time.UTC),
			CreatedBy:        demoAdvocateID,
		},
		{
			ID:               "e8Ty3uIo6pAs1dFg4hJk7lZx0cVb2nMq",
			AdvocateID:       demoAdvocateID,
			ClientID:         demoClientTwo,
			CaseNumber:       "WP/2026/0031",
			Title:            "Iyer v. State Transport Authority",
			Description:      utils.StringPtr("Writ petition challenging permit revocation"),
			CaseType:         "writ",
			Court:            utils.StringPtr("Karnataka High Court"),
			Status:           types.CaseStatusPending,
			Priority:         types.CasePriorityUrgent,
			RegistrationDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			CreatedBy:        demoAdvocateID,
		},
	}

	for _, c := range demoCases {
		if _, err := cases.Case(ctx, demoAdvocateID, c.ID); err == nil {
			continue
		} else if !errors.Is(err, types.ErrCaseNotFound) {
			return nil, fmt.Errorf("failed to fetch demo case %s: %w", c.ID, err)
		}

		if err := cases.CreateCase(ctx, c); err != nil {
			if errors.Is(err, types.ErrDuplicateCaseNumber) {
				continue
			}
			return nil, fmt.Errorf("failed to create demo case %s: %w", c.CaseNumber, err)
		}
		summary.Cases++
	}

	demoHearings := []*types.Hearing{
		{
			ID:         "f2Ui9oPa3sDf6gHj0kLz4xCv7bNm1qWe",
			AdvocateID: demoAdvocateID,
			CaseID:     "c1Qw8eRt5yUi2oPa6sDf9gHj3kLz0xCv",
			Title:      "Framing of issues",
			Date:       time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour),
			Location:   utils.StringPtr("Courtroom 12, Bombay High Court"),
			Status:     types.HearingStatusScheduled,
			CreatedBy:  demoAdvocateID,
		},
		{
			ID:         "g6Op2aSd5fGh8jKl1zXc4vBn7mQw0eRt",
			AdvocateID: demoAdvocateID,
			CaseID:     "e8Ty3uIo6pAs1dFg4hJk7lZx0cVb2nMq",
			Title:      "Admission hearing",
			Date:       time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
			Location:   utils.StringPtr("Courtroom 4, Karnataka High Court"),
			Status:     types.HearingStatusScheduled,
			CreatedBy:  demoAdvocateID,
		},
	}

	for _, h := range demoHearings {
		if _, err := hearings.Hearing(ctx, demoAdvocateID, h.ID); err == nil {
			continue
		} else if !errors.Is(err, types.ErrHearingNotFound) {
			return nil, fmt.Errorf("failed to fetch demo hearing %s: %w", h.ID, err)
		}

		if err := hearings.CreateHearing(ctx, h); err != nil {
			return nil, fmt.Errorf("failed to create demo hearing %s: %w", h.Title, err)
		}
		summary.Hearings++
	}

	return summary, nil
}
