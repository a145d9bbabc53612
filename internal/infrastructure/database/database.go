package database

import (
	"strings"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Open opens a GORM DB from DSN. Postgres DSNs use PreferSimpleProtocol so
// poolers like PgBouncer don't trip over cached prepared statements.
// A "sqlite://<path>" DSN opens an embedded database (":memory:" works too).
func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), cfg)
}

// Models lists every table owned by the service, lookups first.
func Models() []interface{} {
	return []interface{}{
		&domain.PropertyType{},
		&domain.BedType{},
		&domain.Amenity{},
		&domain.HomeRule{},
		&domain.HomeDetail{},
		&domain.User{},
		&domain.Admin{},
		&domain.Listing{},
		&domain.Bed{},
		&domain.PropertyAmenity{},
		&domain.PropertyRule{},
		&domain.PropertyDetail{},
		&domain.PropertyImage{},
		&domain.PropertyBlockedDate{},
	}
}

// AutoMigrate runs migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
