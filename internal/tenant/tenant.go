// Package tenant derives the data partition every query must be scoped
// by. A main advocate owns the partition named by their own ID; team
// members and clients inherit the partition of the advocate that
// created them.
package tenant

import (
	"strings"

	"lexdesk/pkg/types"
)

// Principal is the authenticated actor carried by the session cookie.
type Principal struct {
	ID             string       `json:"id"`
	Roles          []types.Role `json:"roles"`
	AdvocateID     *string      `json:"advocateId,omitempty"`
	IsMainAdvocate bool         `json:"isMainAdvocate"`
}

func (p Principal) HasRole(role types.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) HasAnyRole(roles ...types.Role) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// FromUser builds the session principal for a user record.
func FromUser(u *types.User) Principal {
	p := Principal{
		ID:         u.ID,
		Roles:      u.Roles,
		AdvocateID: u.AdvocateID,
	}
	p.IsMainAdvocate = u.AdvocateID == nil && p.HasRole(types.RoleAdvocate)
	return p
}

// Resolve derives the tenant scope for a principal. It is pure and
// cheap, and is re-derived per request rather than cached.
//
// A principal with no advocate linkage must hold the advocate role to
// own a tenant; anything else is a misconfigured account and fails
// before any data access happens.
func Resolve(p Principal) (string, error) {
	if p.AdvocateID != nil && strings.TrimSpace(*p.AdvocateID) != "" {
		return *p.AdvocateID, nil
	}

	if p.HasRole(types.RoleAdvocate) {
		return p.ID, nil
	}

	return "", types.ErrInvalidTenantConfig
}
