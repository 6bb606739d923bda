package domain

import "time"

// Role enumerates the actor tiers recognized by the authorization policy.
type Role string

const (
	RoleEndUser     Role = "END_USER"
	RoleSupport     Role = "SUPPORT"
	RoleAdmin       Role = "ADMIN"
	RoleMasterAdmin Role = "MASTER_ADMIN"
)

// Principal is the authenticated actor performing an action. Exactly one
// of Campaign (end-users) or SupportGroup (support staff) is set.
type Principal struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	Campaign     string
	SupportGroup string
}

// User is the persisted account record behind a Principal. Account
// management beyond registration and login lives in an external admin
// surface.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Campaign     string
	SupportGroup string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal projects the session-facing view of a user record.
func (u *User) Principal() Principal {
	return Principal{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Campaign:     u.Campaign,
		SupportGroup: u.SupportGroup,
	}
}
