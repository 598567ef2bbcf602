package model

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User represents an application user record as stored in the `users`
// table. Hash columns never leave the process: they are excluded from JSON.
//
// Fields:
//
//	ID               – opaque identifier (uuid), assigned at creation.
//	Email            – unique, always lower-case.
//	Name             – display name.
//	PasswordHash     – bcrypt hash of the password.
//	Role             – USER or ADMIN.
//	RefreshTokenHash – hash of the currently valid refresh token (nil when logged out).
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// OwnerID implements Owned: a user owns its own record.
func (u User) OwnerID() string { return u.ID }

// Claims are the identity fields embedded in access and refresh tokens.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// ClaimsOf builds token claims from a stored user.
func ClaimsOf(u User) Claims {
	return Claims{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserPatch lists the user columns that may be updated. Nil fields are left
// untouched. ClearRefreshToken sets refresh_token_hash to NULL and wins over
// RefreshTokenHash.
type UserPatch struct {
	Name              *string
	Role              *Role
	PasswordHash      *string
	RefreshTokenHash  *string
	ClearRefreshToken bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Role == nil && p.PasswordHash == nil &&
		p.RefreshTokenHash == nil && !p.ClearRefreshToken
}
