package types

import "time"

type Role string

const (
	RoleAdvocate   Role = "advocate"
	RoleAdmin      Role = "admin"
	RoleTeamMember Role = "team_member"
	RoleClient     Role = "client"
)

// User is any authenticated principal: a main advocate, an admin, a team
// member scoped to an advocate's tenant, or a client of that tenant.
// AdvocateID is nil only for main advocates, who own their tenant outright.
type User struct {
	ID              string     `db:"id" json:"id"`
	AdvocateID      *string    `db:"advocate_id" json:"advocateId,omitempty"`
	Roles           []Role     `db:"roles" json:"roles"` // jsonb array
	Email           string     `db:"email" json:"email"`
	Name            string     `db:"name" json:"name"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Address         *string    `db:"address" json:"address,omitempty"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	ProfileImageKey *string    `db:"profile_image_key" json:"-"`
	CreatedBy       *string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
	LastLoginAt     *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
