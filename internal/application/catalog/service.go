// Package catalog serves the canonical lookup tables used by the hosting
// wizard. Display names are translated to the request language.
package catalog

import (
	"context"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/i18n"

	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	AssetURL string
}

func NewService(db *gorm.DB, assetURL string) *Service {
	return &Service{DB: db, AssetURL: assetURL}
}

func list[T any](ctx context.Context, db *gorm.DB, order string) ([]T, error) {
	out := make([]T, 0)
	if err := db.WithContext(ctx).Order(order).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) PropertyTypes(ctx context.Context) ([]domain.PropertyType, error) {
	rows, err := list[domain.PropertyType](ctx, s.DB, "id ASC")
	for i := range rows {
		rows[i].Name = i18n.T(ctx, rows[i].Name)
	}
	return rows, err
}

func (s *Service) BedTypes(ctx context.Context) ([]domain.BedType, error) {
	rows, err := list[domain.BedType](ctx, s.DB, "id ASC")
	for i := range rows {
		rows[i].Name = i18n.T(ctx, rows[i].Name)
		if rows[i].Icon != nil {
			u := storage.PublicURL(s.AssetURL, *rows[i].Icon)
			rows[i].Icon = &u
		}
	}
	return rows, err
}

// Amenities are ordered by type then id, so each section is contiguous.
func (s *Service) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := list[domain.Amenity](ctx, s.DB, "type ASC, id ASC")
	for i := range rows {
		rows[i].Name = i18n.T(ctx, rows[i].Name)
		if rows[i].IconURL != nil {
			u := storage.PublicURL(s.AssetURL, *rows[i].IconURL)
			rows[i].IconURL = &u
		}
	}
	return rows, err
}

func (s *Service) HomeRules(ctx context.Context) ([]domain.HomeRule, error) {
	rows, err := list[domain.HomeRule](ctx, s.DB, "id ASC")
	for i := range rows {
		rows[i].Rule = i18n.T(ctx, rows[i].Rule)
	}
	return rows, err
}

func (s *Service) HomeDetails(ctx context.Context) ([]domain.HomeDetail, error) {
	rows, err := list[domain.HomeDetail](ctx, s.DB, "id ASC")
	for i := range rows {
		rows[i].Name = i18n.T(ctx, rows[i].Name)
	}
	return rows, err
}
