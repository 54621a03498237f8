package tenant

import (
	"testing"

	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("MainAdvocateOwnsTenant", func(t *testing.T) {
		p := Principal{
			ID:    "adv-1",
			Roles: []types.Role{types.RoleAdvocate},
		}

		tenantID, err := Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, "adv-1", tenantID)
	})

	t.Run("TeamMemberScopedToAdvocate", func(t *testing.T) {
		p := Principal{
			ID:         "team-1",
			Roles:      []types.Role{types.RoleTeamMember},
			AdvocateID: utils.StringPtr("adv-1"),
		}

		tenantID, err := Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, "adv-1", tenantID)
	})

	t.Run("ClientScopedToAdvocate", func(t *testing.T) {
		p := Principal{
			ID:         "client-1",
			Roles:      []types.Role{types.RoleClient},
			AdvocateID: utils.StringPtr("adv-2"),
		}

		tenantID, err := Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, "adv-2", tenantID)
	})

	t.Run("AdvocateWithParentTenant", func(t *testing.T) {
		// An advocate linked under another advocate resolves to the
		// parent tenant, not their own ID.
		p := Principal{
			ID:         "adv-junior",
			Roles:      []types.Role{types.RoleAdvocate},
			AdvocateID: utils.StringPtr("adv-senior"),
		}

		tenantID, err := Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, "adv-senior", tenantID)
	})

	t.Run("NonAdvocateWithoutLinkageFails", func(t *testing.T) {
		p := Principal{
			ID:    "client-orphan",
			Roles: []types.Role{types.RoleClient},
		}

		_, err := Resolve(p)
		assert.ErrorIs(t, err, types.ErrInvalidTenantConfig)
	})
}

func TestFromUser(t *testing.T) {
	u := &types.User{
		ID:         "user-1",
		AdvocateID: utils.StringPtr("adv-1"),
		Roles:      []types.Role{types.RoleTeamMember},
	}

	p := FromUser(u)

	assert.Equal(t, "user-1", p.ID)
	require.NotNil(t, p.AdvocateID)
	assert.Equal(t, "adv-1", *p.AdvocateID)
	assert.True(t, p.HasRole(types.RoleTeamMember))
	assert.False(t, p.HasRole(types.RoleAdvocate))
}

func TestHasAnyRole(t *testing.T) {
	p := Principal{Roles: []types.Role{types.RoleClient}}

	assert.True(t, p.HasAnyRole(types.RoleAdvocate, types.RoleClient))
	assert.False(t, p.HasAnyRole(types.RoleAdvocate, types.RoleAdmin))
	assert.False(t, p.HasAnyRole())
}
