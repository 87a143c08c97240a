package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermittedVehicle is one entry in an apartment's parking ledger: the vehicle
// with the given plate is allowed to park there. An entry is Active until it
// is soft deleted, which is terminal for that row — re-permitting the same
// plate creates a fresh entry so the history stays intact.
//
// At most one active entry may exist per (apartment_id, plate); the partial
// unique index uq_apartment_plate_active (created in db.Migrate, predicate
// deleted_at IS NULL) enforces this at the storage level so concurrent adds
// cannot race past an application-side check.
type PermittedVehicle struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentID string     `gorm:"type:uuid;index;not null" json:"apartment_id"`
	Plate       string     `gorm:"size:50;not null" json:"plate"`
	ParkingSpot string     `gorm:"size:50" json:"parking_spot,omitempty"`
	Notes       string     `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUID when none is provided.
func (p *PermittedVehicle) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
