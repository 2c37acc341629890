// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can carry.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleManager    = "manager"
	RoleEmployee   = "employee"
	RoleHR         = "hr"
	RoleEditor     = "editor"
)

// AllRoles lists every valid role value.
var AllRoles = []string{RoleUser, RoleAdmin, RoleInstructor, RoleManager, RoleEmployee, RoleHR, RoleEditor}

// Sign-in providers.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User is an account that can sign in to the admin panel or the public site.
//
// Active is a pointer on purpose: documents written before the flag existed
// have no "active" field and must be treated as active.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Active       *bool              `bson:"active,omitempty" json:"active,omitempty"`
	Provider     string             `bson:"provider" json:"provider"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"lastLoginAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the account may sign in. Only an explicit false
// disables an account.
func (u *User) IsActive() bool {
	return ActiveFlag(u.Active)
}

// Ref returns the compact form used when a user is populated into another document.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
