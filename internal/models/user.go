package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored on User. The policy package mirrors these as typed
// constants; the string form is what lands in the database.
const (
	RoleMember        = "member"
	RoleResourceAdmin = "resource_admin"
	RoleSuperAdmin    = "super_admin"
)

// User backs the identity boundary. The core only ever sees the derived
// (subject id, role) pair; the row itself exists so a session can be
// re-resolved to a current role on every request.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;unique;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string    `gorm:"size:32;not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CanAdminister reports whether the role is eligible to be assigned as an
// apartment's delegated admin.
func CanAdminister(role string) bool {
	return role == RoleResourceAdmin || role == RoleSuperAdmin
}
