package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes tenants browsing space from developers offering it
type Role string

const (
	RoleTenant    Role = "tenant"
	RoleDeveloper Role = "developer"
)

// ParseRole maps raw input to a Role, defaulting to tenant for empty or
// unknown values.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleDeveloper:
		return RoleDeveloper
	default:
		return RoleTenant
	}
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary is the public projection of a user shown next to their listings
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Summary returns the display projection of u
func (u *User) Summary() *Summary {
	return &Summary{ID: u.ID, Email: u.Email, Role: u.Role}
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
