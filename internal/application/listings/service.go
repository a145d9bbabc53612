// Package listings applies the hosting wizard steps to a host's listing.
//
// Every step validates its payload, writes exactly its columns (or replaces
// one child collection) and returns the re-read listing.
package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

const (
	MsgNotFound = "Property not found"
	MsgBlocked  = "Your property is blocked, please contact admin"
)

type Service struct {
	DB        *gorm.DB
	AssetURL  string
	validator *validation.Validator
}

func NewService(db *gorm.DB, assetURL string) *Service {
	return &Service{DB: db, AssetURL: assetURL, validator: newValidator()}
}

func (s *Service) validate(in interface{}) error {
	if s.validator == nil {
		s.validator = newValidator()
	}
	return s.validator.Validate(in)
}

// owned loads a listing the owner may edit. Deleted and foreign listings are
// reported as not found.
func owned(tx *gorm.DB, ownerID, listingID uint) (*domain.Listing, error) {
	var l domain.Listing
	err := tx.Where("id = ? AND user_id = ? AND status <> ?", listingID, ownerID, domain.StatusDeleted).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	if l.Status == domain.StatusBlocked {
		return nil, apperr.Forbidden(MsgBlocked)
	}
	return &l, nil
}

// updateColumns writes cols on an owned listing and returns the projection.
func (s *Service) updateColumns(ctx context.Context, ownerID, listingID uint, cols map[string]interface{}) (*domain.Listing, error) {
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		return tx.Model(&domain.Listing{}).Where("id = ?", listingID).Updates(cols).Error
	})
}

// inTx runs fn for an owned listing inside one transaction, then re-reads it.
func (s *Service) inTx(ctx context.Context, ownerID, listingID uint, fn func(tx *gorm.DB) error) (*domain.Listing, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := owned(tx, ownerID, listingID); err != nil {
			return err
		}
		return fn(tx)
	})
	if err != nil {
		return nil, err
	}
	return s.Projection(ctx, listingID)
}

// replaceChildren deletes every child row of the listing and inserts rows.
// Callers run it inside a transaction so the set is swapped atomically.
func replaceChildren[T any](tx *gorm.DB, listingID uint, rows []T) error {
	if err := tx.Where("property_id = ?", listingID).Delete(new(T)).Error; err != nil {
		return fmt.Errorf("delete children: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert children: %w", err)
	}
	return nil
}

// Projection re-reads the listing with every child collection.
func (s *Service) Projection(ctx context.Context, listingID uint) (*domain.Listing, error) {
	var l domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Type").
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("serial_number ASC, id ASC") }).
		Preload("Beds.BedType").
		Preload("Amenities", func(db *gorm.DB) *gorm.DB { return db.Order("amenity_id ASC") }).
		Preload("Amenities.Amenity").
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("is_additional ASC, id ASC") }).
		Preload("Rules.Rule").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("detail_id ASC") }).
		Preload("Details.Detail").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("serial_number ASC, id ASC") }).
		Preload("BlockedDates", func(db *gorm.DB) *gorm.DB { return db.Order("blocked_date ASC") }).
		First(&l, listingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	if l.CoverPhoto != nil {
		u := storage.PublicURL(s.AssetURL, *l.CoverPhoto)
		l.CoverPhotoURL = &u
	}
	return &l, nil
}

// countExisting returns how many of ids exist in model's table.
func countExisting(tx *gorm.DB, model interface{}, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := tx.Model(model).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// nullable turns a nil pointer into SQL NULL for map updates.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
