// Package user serves the signed-in user's own profile.
package user

import (
	"context"
	"errors"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/application/auth"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

const MsgUserNotFound = "Invalid user Id"

// Service holds DB, storage and OTP access for profile operations.
type Service struct {
	DB       *gorm.DB
	Uploads  *uploads.Service
	OTP      otp.Provider
	AssetURL string

	validator *validation.Validator
}

func NewService(db *gorm.DB, up *uploads.Service, provider otp.Provider, assetURL string) *Service {
	return &Service{DB: db, Uploads: up, OTP: provider, AssetURL: assetURL, validator: validation.New()}
}

type UpdatePhoneInput struct {
	CountryCode string `json:"country_code" validate:"required,country_code"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	OTP         string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

func (s *Service) find(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := s.DB.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if u.Avatar != nil {
		url := storage.PublicURL(s.AssetURL, *u.Avatar)
		u.AvatarURL = &url
	}
	return &u, nil
}

// Profile returns the caller's account.
func (s *Service) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.find(ctx, userID)
}

// UpdateProfilePhoto stores the new avatar, removes the previous object and
// returns the public URL.
func (s *Service) UpdateProfilePhoto(ctx context.Context, userID uint, photo uploads.Upload) (string, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}
	key, err := s.Uploads.UploadFile(ctx, uploads.DirProfilePhotos, photo)
	if err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).Update("avatar", key).Error; err != nil {
		s.Uploads.Remove(ctx, key)
		return "", err
	}
	if u.Avatar != nil && *u.Avatar != "" {
		s.Uploads.Remove(ctx, *u.Avatar)
	}
	return storage.PublicURL(s.AssetURL, key), nil
}

// UpdatePhoneNumber verifies the OTP sent to the new number and stores it.
func (s *Service) UpdatePhoneNumber(ctx context.Context, userID uint, in UpdatePhoneInput) (*domain.User, error) {
	in.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, userID); err != nil {
		return nil, err
	}

	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.User{}).
		Where("country_code = ? AND phone_number = ? AND id <> ? AND is_deleted = ?", in.CountryCode, in.PhoneNumber, userID, false).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.Conflict(auth.MsgPhoneExists)
	}

	if _, err := auth.CheckCode(ctx, s.OTP, in.CountryCode+in.PhoneNumber, in.OTP); err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"country_code": in.CountryCode,
		"phone_number": in.PhoneNumber,
		"is_verified":  true,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.find(ctx, userID)
}
