// Package db opens the database connection and owns migrations and seeding.
package db

import (
	"fmt"

	"github.com/diewo77/parkgate/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database named by dsn: PostgreSQL for URL/key=value
// DSNs, sqlite otherwise. TranslateError is enabled so unique-constraint
// violations surface as gorm.ErrDuplicatedKey on both dialects.
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if IsPostgresDSN(dsn) {
		return gorm.Open(postgres.Open(NormalizeDSN(dsn)), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// Migrate runs AutoMigrate for all models and creates the partial unique
// index guarding active permits. The index predicate matches the explicit
// deleted_at IS NULL filter used by every ledger query, so "at most one
// active permit per (apartment, plate)" holds under concurrent writers
// without any application-level locking.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Apartment{},
		&models.PermittedVehicle{},
	); err != nil {
		return err
	}
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_apartment_plate_active
		 ON permitted_vehicles (apartment_id, plate)
		 WHERE deleted_at IS NULL`,
	).Error
}

// Seed ensures an initial super admin exists. A no-op when the email is
// already taken or no password is configured.
func Seed(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	admin := models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
	}
	return db.Create(&admin).Error
}
