// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory database. The pool is pinned to one
// connection so every query sees the same memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// OpenSeededDB is OpenDB plus the canonical lookup rows.
func OpenSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := OpenDB(t)
	require.NoError(t, database.SeedLookups(context.Background(), db))
	return db
}

// CreateUser inserts an active user.
func CreateUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{FirstName: "Test", LastName: "User", Email: &email, LoginType: domain.LoginTypeEmail, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// LookupID returns the id of the lookup row of model whose column equals value.
func LookupID(t *testing.T, db *gorm.DB, model interface{}, column, value string) uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(model).Where(column+" = ?", value).Pluck("id", &ids).Error)
	require.NotEmpty(t, ids)
	return ids[0]
}
