package server

import (
	"context"

	"lexdesk/internal/cleanup"
	"lexdesk/pkg/types"
)

// Store interfaces are declared here, on the consumer side, so handler
// tests can swap the pgx-backed repositories for in-memory fakes. The
// concrete implementations live in internal/store.

type UserStore interface {
	UserByID(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) error
	UpdateUser(ctx context.Context, user *types.User) error
	TouchLastLogin(ctx context.Context, userID string) error
	TeamMembers(ctx context.Context, tenantID string) ([]*types.User, error)
	UpsertUserByEmail(ctx context.Context, user *types.User) error
}

type ClientStore interface {
	Clients(ctx context.Context, tenantID string, filter types.ClientFilter) ([]*types.User, types.Pagination, error)
	Client(ctx context.Context, tenantID, clientID string) (*types.User, error)
	CreateClient(ctx context.Context, client *types.User) error
	UpdateClient(ctx context.Context, tenantID string, client *types.User) error
	DeleteClient(ctx context.Context, tenantID, clientID string) error
	AllClients(ctx context.Context, tenantID string) ([]*types.User, error)
}

type CaseStore interface {
	Cases(ctx context.Context, tenantID string, filter types.CaseFilter) ([]*types.Case, types.Pagination, error)
	Case(ctx context.Context, tenantID, caseID string) (*types.Case, error)
	CasesByClient(ctx context.Context, tenantID, clientID string) ([]*types.Case, error)
	CreateCase(ctx context.Context, c *types.Case) error
	UpdateCase(ctx context.Context, tenantID string, c *types.Case) error
	DeleteCase(ctx context.Context, tenantID, caseID string) error
	DeleteCasesByClient(ctx context.Context, tenantID, clientID string) ([]string, error)
	ActiveCaseCount(ctx context.Context, tenantID, clientID string) (int64, error)
	AllCases(ctx context.Context, tenantID string) ([]*types.Case, error)
	DeleteAllCases(ctx context.Context, tenantID string) error
	CreateCases(ctx context.Context, cases []*types.Case) error
}

type DocumentStore interface {
	Document(ctx context.Context, tenantID, documentID string) (*types.CaseDocument, error)
	DocumentsByCase(ctx context.Context, tenantID, caseID string) ([]*types.CaseDocument, error)
	CreateDocument(ctx context.Context, doc *types.CaseDocument) error
	DeleteDocument(ctx context.Context, tenantID, documentID string) error
}

type HearingStore interface {
	Hearings(ctx context.Context, tenantID string, filter types.HearingFilter) ([]*types.Hearing, types.Pagination, error)
	Hearing(ctx context.Context, tenantID, hearingID string) (*types.Hearing, error)
	CreateHearing(ctx context.Context, h *types.Hearing) error
	UpdateHearing(ctx context.Context, tenantID string, h *types.Hearing) error
	DeleteHearing(ctx context.Context, tenantID, hearingID string) error
	AllHearings(ctx context.Context, tenantID string) ([]*types.Hearing, error)
	DeleteAllHearings(ctx context.Context, tenantID string) error
	CreateHearings(ctx context.Context, hearings []*types.Hearing) error
}

// Purger is the cleanup coordinator surface the handlers call after a
// destructive mutation.
type Purger interface {
	PurgePrefix(ctx context.Context, prefix string) cleanup.Result
}

// Notifier fires best-effort emails; implementations must never block
// or fail the caller.
type Notifier interface {
	ClientCreated(to, clientName, advocateName string)
	DocumentUploaded(to, caseNumber, fileName string)
	ClientDeleted(to, clientName string)
}
