package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openFile(t *testing.T) *gorm.DB {
	db, err := Open(sqlitePrefix + filepath.Join(t.TempDir(), "roomz.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeedLookups_Idempotent(t *testing.T) {
	db := openFile(t)
	ctx := context.Background()
	require.NoError(t, SeedLookups(ctx, db))
	require.NoError(t, SeedLookups(ctx, db))

	assert.Equal(t, int64(len(seedPropertyTypes)), count(t, db, &domain.PropertyType{}))
	assert.Equal(t, int64(len(seedBedTypes)), count(t, db, &domain.BedType{}))
	assert.Equal(t, int64(len(seedHomeRules)), count(t, db, &domain.HomeRule{}))
	assert.Equal(t, int64(len(seedHomeDetails)), count(t, db, &domain.HomeDetail{}))
	assert.Equal(t, int64(len(seedAmenities)), count(t, db, &domain.Amenity{}))
}

func TestSeedAdmin(t *testing.T) {
	db := openFile(t)
	ctx := context.Background()
	require.NoError(t, SeedAdmin(ctx, db, "", "x"))
	assert.Equal(t, int64(0), count(t, db, &domain.Admin{}))

	require.NoError(t, SeedAdmin(ctx, db, "admin@roomz.test", "first1"))
	require.NoError(t, SeedAdmin(ctx, db, "admin@roomz.test", "second2"))
	assert.Equal(t, int64(1), count(t, db, &domain.Admin{}))

	var a domain.Admin
	require.NoError(t, db.Where("email = ?", "admin@roomz.test").First(&a).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("first1")))
}
