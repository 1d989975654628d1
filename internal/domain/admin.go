package domain

import "time"

// AdminRole enumerates admin console roles.
type AdminRole string

const (
	RoleNone       AdminRole = ""
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
)

// Valid reports whether the role can be granted.
func (r AdminRole) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// AdminUser is an allowlist entry.
type AdminUser struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Role    AdminRole `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

// AdminAccount holds sign-in credentials for the admin console.
type AdminAccount struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AdminIdentity is an authenticated caller with a resolved role.
type AdminIdentity struct {
	Email string
	Role  AdminRole
}

// IsSuperAdmin reports whether the identity holds the super_admin role.
func (a *AdminIdentity) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}
