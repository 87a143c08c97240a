package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/diewo77/parkgate/internal/apperr"
	"github.com/diewo77/parkgate/internal/models"
	"github.com/diewo77/parkgate/internal/pagination"
	"github.com/diewo77/parkgate/internal/policy"
	"gorm.io/gorm"
)

// PermitService owns the parking ledger of each apartment. Every operation
// resolves the apartment first (a deleted apartment is NotFound before
// authorization is even considered), then asks policy.Decide, then acts.
type PermitService struct {
	db         *gorm.DB
	apartments *ApartmentService
}

// NewPermitService creates the ledger over the given database and registry.
func NewPermitService(db *gorm.DB, apartments *ApartmentService) *PermitService {
	return &PermitService{db: db, apartments: apartments}
}

// AddPermitInput carries the fields for a new permit entry.
type AddPermitInput struct {
	Plate       string `json:"plate"`
	ParkingSpot string `json:"parking_spot"`
	Notes       string `json:"notes"`
}

// UpdatePermitInput carries a partial update of an active permit; nil fields
// are left unchanged.
type UpdatePermitInput struct {
	ParkingSpot *string `json:"parking_spot"`
	Notes       *string `json:"notes"`
}

// PermitCheck is the result of a permission lookup. Absence of a permit is a
// normal negative result, not an error.
type PermitCheck struct {
	Permitted     bool   `json:"is_permitted"`
	ApartmentID   string `json:"apartment_id"`
	ApartmentName string `json:"apartment_name,omitempty"`
	Plate         string `json:"plate"`
	ParkingSpot   string `json:"parking_spot,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// resolve loads the apartment and authorizes action against it.
func (s *PermitService) resolve(ctx context.Context, id policy.Identity, apartmentID string, action policy.Action) (*models.Apartment, error) {
	apt, err := s.apartments.Get(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(id, apt, action); err != nil {
		return nil, err
	}
	return apt, nil
}

// Add records a vehicle on the apartment's permitted list. The active-permit
// uniqueness is enforced by the partial unique index, so two concurrent adds
// for the same plate cannot both succeed: the loser gets AlreadyPermitted.
func (s *PermitService) Add(ctx context.Context, id policy.Identity, apartmentID string, in AddPermitInput) (*models.PermittedVehicle, error) {
	in.Plate = strings.TrimSpace(in.Plate)
	if in.Plate == "" {
		return nil, apperr.New(apperr.ErrInvalidArgument, "plate is required")
	}
	if _, err := s.resolve(ctx, id, apartmentID, policy.ActionWritePermits); err != nil {
		return nil, err
	}
	permit := models.PermittedVehicle{
		ApartmentID: apartmentID,
		Plate:       in.Plate,
		ParkingSpot: in.ParkingSpot,
		Notes:       in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&permit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.New(apperr.ErrAlreadyPermitted, "vehicle already permitted in this apartment").
				WithApartment(apartmentID).WithPlate(in.Plate)
		}
		return nil, storageErr(err)
	}
	return &permit, nil
}

// Remove soft-deletes the active permit for the plate. Previously removed
// entries for the same plate are never touched; the ledger history is
// immutable. No active entry is NotPermitted.
func (s *PermitService) Remove(ctx context.Context, id policy.Identity, apartmentID, plate string) error {
	if _, err := s.resolve(ctx, id, apartmentID, policy.ActionWritePermits); err != nil {
		return err
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.PermittedVehicle{}).
		Where("apartment_id = ? AND plate = ? AND deleted_at IS NULL", apartmentID, plate).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotPermitted, "no active permit for this vehicle").
			WithApartment(apartmentID).WithPlate(plate)
	}
	return nil
}

// Update changes the spot/notes of the active permit for the plate.
func (s *PermitService) Update(ctx context.Context, id policy.Identity, apartmentID, plate string, in UpdatePermitInput) (*models.PermittedVehicle, error) {
	if _, err := s.resolve(ctx, id, apartmentID, policy.ActionWritePermits); err != nil {
		return nil, err
	}
	var permit models.PermittedVehicle
	err := s.db.WithContext(ctx).
		Where("apartment_id = ? AND plate = ? AND deleted_at IS NULL", apartmentID, plate).
		First(&permit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotPermitted, "no active permit for this vehicle").
				WithApartment(apartmentID).WithPlate(plate)
		}
		return nil, storageErr(err)
	}
	if in.ParkingSpot != nil {
		permit.ParkingSpot = *in.ParkingSpot
	}
	if in.Notes != nil {
		permit.Notes = *in.Notes
	}
	if err := s.db.WithContext(ctx).Save(&permit).Error; err != nil {
		return nil, storageErr(err)
	}
	return &permit, nil
}

// Check reports whether the plate holds an active permit on the apartment.
func (s *PermitService) Check(ctx context.Context, id policy.Identity, apartmentID, plate string) (*PermitCheck, error) {
	apt, err := s.resolve(ctx, id, apartmentID, policy.ActionReadPermits)
	if err != nil {
		return nil, err
	}
	var permit models.PermittedVehicle
	err = s.db.WithContext(ctx).
		Where("apartment_id = ? AND plate = ? AND deleted_at IS NULL", apartmentID, plate).
		First(&permit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PermitCheck{Permitted: false, ApartmentID: apartmentID, Plate: plate}, nil
		}
		return nil, storageErr(err)
	}
	return &PermitCheck{
		Permitted:     true,
		ApartmentID:   apartmentID,
		ApartmentName: apt.Name,
		Plate:         permit.Plate,
		ParkingSpot:   permit.ParkingSpot,
		Notes:         permit.Notes,
	}, nil
}

// List returns the apartment's active permits, oldest first so pages stay
// stable while new permits are appended.
func (s *PermitService) List(ctx context.Context, id policy.Identity, apartmentID string, page pagination.Page) ([]models.PermittedVehicle, int64, error) {
	if _, err := s.resolve(ctx, id, apartmentID, policy.ActionReadPermits); err != nil {
		return nil, 0, err
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	q := s.db.WithContext(ctx).Model(&models.PermittedVehicle{}).
		Where("apartment_id = ? AND deleted_at IS NULL", apartmentID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	var permits []models.PermittedVehicle
	if err := q.Order("created_at ASC").Scopes(page.Scope()).Find(&permits).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return permits, total, nil
}
