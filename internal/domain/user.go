// Package domain contains the core data types for the Träwelling API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import "time"

// Role is the coarse permission level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account on the platform. Admins moderate event suggestions and
// may modify any status or tag.
type User struct {
	ID          int64
	Username    string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
