package services

import (
	"testing"

	"github.com/diewo77/parkgate/internal/db"
	"github.com/diewo77/parkgate/internal/models"
	"github.com/diewo77/parkgate/internal/policy"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open db")
	require.NoError(t, db.Migrate(conn), "migrate")
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func identityOf(user models.User) policy.Identity {
	return policy.Identity{SubjectID: user.ID, Role: policy.Role(user.Role)}
}
