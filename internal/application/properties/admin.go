package properties

import (
	"context"
	"errors"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apifeatures"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"gorm.io/gorm"
)

// AdminList lists every listing that has left draft and is not deleted.
func (s *Service) AdminList(ctx context.Context, params map[string]string) (*apifeatures.Page[domain.Listing], error) {
	base := s.DB.Where("status NOT IN ?", domain.HiddenFromAdmin)
	c := apifeatures.New(base, params).
		Filtering("status", "city", "country", "property_type", "user_id").
		Searching("name", "city", "street").
		Sorting("created_at", "id", "name", "status", "base_price").
		Pagination(apifeatures.DefaultPageSize)
	return s.cards(ctx, c, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Owner")
	})
}

// AdminDetail is the aggregate view addressed by uid.
func (s *Service) AdminDetail(ctx context.Context, uid string) (*View, error) {
	return s.load(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("uid = ? AND status <> ?", uid, domain.StatusDeleted)
	})
}

// AdminDelete soft-deletes the listing with the given uid.
func (s *Service) AdminDelete(ctx context.Context, uid string) error {
	res := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("uid = ? AND status <> ?", uid, domain.StatusDeleted).
		Update("status", domain.StatusDeleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(MsgNotFound)
	}
	return nil
}

// ToggleBlock flips a listing between blocked and published and returns the
// new status.
func (s *Service) ToggleBlock(ctx context.Context, uid string) (domain.ListingStatus, error) {
	var next domain.ListingStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Listing
		err := tx.Select("id", "status").Where("uid = ? AND status <> ?", uid, domain.StatusDeleted).First(&l).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(MsgNotFound)
		}
		if err != nil {
			return err
		}
		next = l.Status.ToggleBlocked()
		return tx.Model(&domain.Listing{}).Where("id = ?", l.ID).Update("status", next).Error
	})
	return next, err
}
