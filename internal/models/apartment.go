package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Apartment is an apartment complex whose parking ledger is managed by the
// user referenced by AdminID. Soft deletion is an explicit *time.Time column,
// not gorm.DeletedAt: every query spells out the deleted_at IS NULL
// predicate so visibility never depends on an implicit ORM filter.
type Apartment struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Address     string     `gorm:"size:500;not null" json:"address"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	AdminID     string     `gorm:"type:uuid;index;not null" json:"admin_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUID when none is provided.
func (a *Apartment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// GetAdminID implements the policy.Administered interface.
func (a *Apartment) GetAdminID() string {
	return a.AdminID
}
