// Package services holds the apartment registry and the parking permit
// ledger. Both authorize through policy.Decide on every call and spell out
// the deleted_at IS NULL predicate on every query.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/parkgate/internal/apperr"
	"github.com/diewo77/parkgate/internal/models"
	"github.com/diewo77/parkgate/internal/pagination"
	"github.com/diewo77/parkgate/internal/policy"
	"gorm.io/gorm"
)

// ApartmentService owns Apartment records: creation, delegation, updates and
// soft deletion. Apartment lifecycle is super-admin-exclusive; the delegated
// admin only ever touches the ledger.
type ApartmentService struct {
	db *gorm.DB
}

// NewApartmentService creates the registry over the given database.
func NewApartmentService(db *gorm.DB) *ApartmentService {
	return &ApartmentService{db: db}
}

// CreateApartmentInput carries the fields for a new apartment.
type CreateApartmentInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	AdminID     string `json:"admin_id"`
}

// UpdateApartmentInput carries a partial update; nil fields are left
// unchanged.
type UpdateApartmentInput struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	AdminID     *string `json:"admin_id"`
}

// Create makes a new apartment and assigns its delegated admin. Super admin
// only. The named admin must hold a role that can administer apartments,
// otherwise InvalidDelegate.
func (s *ApartmentService) Create(ctx context.Context, id policy.Identity, in CreateApartmentInput) (*models.Apartment, error) {
	if err := policy.Decide(id, nil, policy.ActionWriteApartment); err != nil {
		return nil, err
	}
	if err := s.validateDelegate(ctx, in.AdminID); err != nil {
		return nil, err
	}
	apt := models.Apartment{
		Name:        in.Name,
		Address:     in.Address,
		Description: in.Description,
		AdminID:     in.AdminID,
	}
	if err := s.db.WithContext(ctx).Create(&apt).Error; err != nil {
		return nil, storageErr(err)
	}
	return &apt, nil
}

// Get returns the apartment if it exists and is not soft-deleted.
func (s *ApartmentService) Get(ctx context.Context, apartmentID string) (*models.Apartment, error) {
	var apt models.Apartment
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", apartmentID).
		First(&apt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "apartment not found").WithApartment(apartmentID)
		}
		return nil, storageErr(err)
	}
	return &apt, nil
}

// Update applies the provided fields to an apartment. Super admin only.
// Reassigning the admin re-validates the delegate's role.
func (s *ApartmentService) Update(ctx context.Context, id policy.Identity, apartmentID string, in UpdateApartmentInput) (*models.Apartment, error) {
	apt, err := s.Get(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(id, apt, policy.ActionWriteApartment); err != nil {
		return nil, err
	}
	if in.Name != nil {
		apt.Name = *in.Name
	}
	if in.Address != nil {
		apt.Address = *in.Address
	}
	if in.Description != nil {
		apt.Description = *in.Description
	}
	if in.AdminID != nil {
		if err := s.validateDelegate(ctx, *in.AdminID); err != nil {
			return nil, err
		}
		apt.AdminID = *in.AdminID
	}
	if err := s.db.WithContext(ctx).Save(apt).Error; err != nil {
		return nil, storageErr(err)
	}
	return apt, nil
}

// SoftDelete marks an apartment deleted. Super admin only. The row stays in
// the table for audit; permits under it become unreachable through the live
// view. A second call finds nothing and returns NotFound.
func (s *ApartmentService) SoftDelete(ctx context.Context, id policy.Identity, apartmentID string) error {
	apt, err := s.Get(ctx, apartmentID)
	if err != nil {
		return err
	}
	if err := policy.Decide(id, apt, policy.ActionWriteApartment); err != nil {
		return err
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&models.Apartment{}).
		Where("id = ? AND deleted_at IS NULL", apartmentID).
		Update("deleted_at", now)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "apartment not found").WithApartment(apartmentID)
	}
	return nil
}

// List returns all active apartments, newest first. Super admin only.
func (s *ApartmentService) List(ctx context.Context, id policy.Identity, page pagination.Page) ([]models.Apartment, int64, error) {
	if id.Role != policy.RoleSuperAdmin {
		return nil, 0, apperr.New(apperr.ErrForbidden, "").WithAction(string(policy.ActionReadApartment))
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	q := s.db.WithContext(ctx).Model(&models.Apartment{}).Where("deleted_at IS NULL")
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	var apts []models.Apartment
	if err := q.Order("created_at DESC").Scopes(page.Scope()).Find(&apts).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return apts, total, nil
}

// ListByAdmin returns the active apartments administered by the caller.
// Open to any authenticated identity; it can only ever see its own set.
func (s *ApartmentService) ListByAdmin(ctx context.Context, id policy.Identity, page pagination.Page) ([]models.Apartment, int64, error) {
	if id.SubjectID == "" {
		return nil, 0, apperr.New(apperr.ErrForbidden, "").WithAction(string(policy.ActionReadApartment))
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	q := s.db.WithContext(ctx).Model(&models.Apartment{}).
		Where("admin_id = ? AND deleted_at IS NULL", id.SubjectID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	var apts []models.Apartment
	if err := q.Order("created_at DESC").Scopes(page.Scope()).Find(&apts).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return apts, total, nil
}

// validateDelegate checks that adminID names a user whose role can
// administer apartments.
func (s *ApartmentService) validateDelegate(ctx context.Context, adminID string) error {
	if adminID == "" {
		return apperr.New(apperr.ErrInvalidDelegate, "admin_id is required")
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", adminID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.ErrInvalidDelegate, "admin user does not exist")
		}
		return storageErr(err)
	}
	if !models.CanAdminister(user.Role) {
		return apperr.New(apperr.ErrInvalidDelegate, "user cannot administer apartments")
	}
	return nil
}

// storageErr maps a storage failure to Unavailable so callers can tell
// "definitely rejected" apart from "unknown, maybe retry".
func storageErr(err error) error {
	return apperr.New(apperr.ErrUnavailable, err.Error())
}
