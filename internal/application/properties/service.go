// Package properties reads listings for preview, detail, search and the
// admin back office, and applies the admin lifecycle changes.
package properties

import (
	"context"
	"errors"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apifeatures"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"gorm.io/gorm"
)

const (
	MsgNotFound = "Property not found"

	similarLimit = 10
)

// Host is the public part of the owner's profile shown on a listing.
type Host struct {
	UID         string    `json:"uid"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AvatarURL   *string   `json:"avatar_url"`
	MemberSince time.Time `json:"member_since"`
}

// View is the nested representation of one listing. Child collections are
// always arrays, empty when the wizard step has not run.
type View struct {
	*domain.Listing
	Host          *Host                        `json:"host"`
	Beds          []domain.Bed                 `json:"beds"`
	Amenities     []domain.PropertyAmenity     `json:"amenities"`
	Rules         []domain.PropertyRule        `json:"rules"`
	Details       []domain.PropertyDetail      `json:"details"`
	Images        []domain.PropertyImage       `json:"images"`
	BlockedDates  []domain.PropertyBlockedDate `json:"blocked_dates"`
	SimilarPlaces []domain.Listing             `json:"similar_places,omitempty"`
}

type Service struct {
	DB       *gorm.DB
	AssetURL string
}

func NewService(db *gorm.DB, assetURL string) *Service {
	return &Service{DB: db, AssetURL: assetURL}
}

func aggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Type").
		Preload("Owner").
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("serial_number ASC, id ASC") }).
		Preload("Beds.BedType").
		Preload("Amenities", func(db *gorm.DB) *gorm.DB { return db.Order("amenity_id ASC") }).
		Preload("Amenities.Amenity").
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Rules.Rule").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("detail_id ASC") }).
		Preload("Details.Detail").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("serial_number ASC, id ASC") }).
		Preload("BlockedDates", func(db *gorm.DB) *gorm.DB { return db.Order("blocked_date ASC") })
}

// cardScope preloads what a listing card in a list needs.
func cardScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Type").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("serial_number ASC, id ASC") }).
		Preload("Amenities.Amenity")
}

func (s *Service) load(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*View, error) {
	var l domain.Listing
	err := aggregate(scope(s.DB.WithContext(ctx))).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.view(&l), nil
}

func (s *Service) view(l *domain.Listing) *View {
	s.withCover(l)
	v := &View{
		Listing:      l,
		Beds:         nonNil(l.Beds),
		Amenities:    nonNil(l.Amenities),
		Rules:        splitRules(l.Rules),
		Details:      nonNil(l.Details),
		Images:       nonNil(l.Images),
		BlockedDates: nonNil(l.BlockedDates),
	}
	if o := l.Owner; o != nil {
		v.Host = &Host{UID: o.UID, FirstName: o.FirstName, LastName: o.LastName, MemberSince: o.CreatedAt}
		if o.Avatar != nil {
			u := storage.PublicURL(s.AssetURL, *o.Avatar)
			v.Host.AvatarURL = &u
		}
	}
	l.Owner = nil
	return v
}

// splitRules orders fixed rules before additional ones.
func splitRules(rules []domain.PropertyRule) []domain.PropertyRule {
	fixed := make([]domain.PropertyRule, 0, len(rules))
	var additional []domain.PropertyRule
	for _, r := range rules {
		if r.IsAdditional {
			additional = append(additional, r)
		} else {
			fixed = append(fixed, r)
		}
	}
	return append(fixed, additional...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *Service) withCover(l *domain.Listing) {
	if l.CoverPhoto != nil {
		u := storage.PublicURL(s.AssetURL, *l.CoverPhoto)
		l.CoverPhotoURL = &u
	}
}

// Preview is the host's view of one of their own listings.
func (s *Service) Preview(ctx context.Context, ownerID, listingID uint) (*View, error) {
	return s.load(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ? AND status <> ?", listingID, ownerID, domain.StatusDeleted)
	})
}

// Detail is the traveller view of a published listing, with similar places
// in the same city.
func (s *Service) Detail(ctx context.Context, listingID uint) (*View, error) {
	v, err := s.load(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND status = ?", listingID, domain.StatusPublished)
	})
	if err != nil {
		return nil, err
	}
	v.SimilarPlaces, err = s.similar(ctx, v.Listing)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) similar(ctx context.Context, l *domain.Listing) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0)
	if l.City == nil || *l.City == "" {
		return out, nil
	}
	err := cardScope(s.DB.WithContext(ctx)).
		Where("city = ? AND status = ? AND id <> ?", *l.City, domain.StatusPublished, l.ID).
		Order("id DESC").
		Limit(similarLimit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i := range out {
		s.withCover(&out[i])
	}
	return out, nil
}

// Search lists published listings for travellers.
func (s *Service) Search(ctx context.Context, params map[string]string) (*apifeatures.Page[domain.Listing], error) {
	base := s.DB.Where("status = ?", domain.StatusPublished)
	c := apifeatures.New(base, params).
		Filtering("city", "country", "property_type", "no_of_guests", "no_of_bedrooms", "no_of_bathrooms", "base_price").
		Searching("name", "city").
		Sorting("created_at", "id", "name", "base_price", "no_of_guests").
		Pagination(apifeatures.DefaultPageSize)
	return s.cards(ctx, c)
}

// HostListings lists the caller's own listings, drafts included.
func (s *Service) HostListings(ctx context.Context, ownerID uint, params map[string]string) (*apifeatures.Page[domain.Listing], error) {
	base := s.DB.Where("user_id = ? AND status <> ?", ownerID, domain.StatusDeleted)
	c := apifeatures.New(base, params).
		Filtering("status", "city", "property_type").
		Searching("name", "city").
		Sorting("created_at", "id", "name", "status").
		Pagination(apifeatures.DefaultPageSize)
	return s.cards(ctx, c)
}

func (s *Service) cards(ctx context.Context, c *apifeatures.Composer, scopes ...func(*gorm.DB) *gorm.DB) (*apifeatures.Page[domain.Listing], error) {
	page, err := apifeatures.Find[domain.Listing](ctx, c, append([]func(*gorm.DB) *gorm.DB{cardScope}, scopes...)...)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		s.withCover(&page.Data[i])
	}
	return page, nil
}
