// Package admin implements back-office authentication and user moderation.
// Listing moderation lives in the properties package.
package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apifeatures"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgOldPassword        = "Old password is incorrect"
	MsgUserNotFound       = "Invalid user Id"
	MsgAdminNotFound      = "Admin not found"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=15"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Session is the admin login result.
type Session struct {
	Admin       *domain.Admin `json:"admin"`
	AccessToken string        `json:"access_token"`
}

type Service struct {
	DB       *gorm.DB
	Tokens   *token.Issuer
	AssetURL string

	validator *validation.Validator
}

func NewService(db *gorm.DB, tokens *token.Issuer, assetURL string) *Service {
	return &Service{DB: db, Tokens: tokens, AssetURL: assetURL, validator: validation.New()}
}

// Login authenticates an admin by email and password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	var a domain.Admin
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(in.Password)) != nil {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}
	tok, err := s.Tokens.Issue(strconv.FormatUint(uint64(a.ID), 10), token.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &Session{Admin: &a, AccessToken: tok}, nil
}

// ChangePassword replaces the admin's password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, adminID uint, in ChangePasswordInput) error {
	if err := s.validator.Validate(in); err != nil {
		return err
	}
	var a domain.Admin
	err := s.DB.WithContext(ctx).First(&a, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(MsgAdminNotFound)
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(in.OldPassword)) != nil {
		return apperr.Validation(MsgOldPassword, map[string]string{"old_password": "is incorrect"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&a).Update("password", string(hash)).Error
}

// Users lists accounts that are not deleted.
func (s *Service) Users(ctx context.Context, params map[string]string) (*apifeatures.Page[domain.User], error) {
	base := s.DB.Where("is_deleted = ?", false)
	c := apifeatures.New(base, params).
		Filtering("is_active", "is_verified", "login_type", "country_code").
		Searching("first_name", "last_name", "email").
		Sorting("created_at", "id", "first_name", "last_name", "email").
		Pagination(apifeatures.DefaultPageSize)
	page, err := apifeatures.Find[domain.User](ctx, c)
	if err != nil {
		return nil, err
	}
	for i := range page.Data {
		if a := page.Data[i].Avatar; a != nil {
			url := storage.PublicURL(s.AssetURL, *a)
			page.Data[i].AvatarURL = &url
		}
	}
	return page, nil
}

// DeleteUser soft-deletes the user with uid.
func (s *Service) DeleteUser(ctx context.Context, uid string) error {
	res := s.DB.WithContext(ctx).Model(&domain.User{}).
		Where("uid = ? AND is_deleted = ?", uid, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(MsgUserNotFound)
	}
	return nil
}

// ToggleUserStatus flips is_active and returns the new value.
func (s *Service) ToggleUserStatus(ctx context.Context, uid string) (bool, error) {
	var active bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Select("id", "is_active").Where("uid = ? AND is_deleted = ?", uid, false).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(MsgUserNotFound)
		}
		if err != nil {
			return err
		}
		active = !u.IsActive
		return tx.Model(&domain.User{}).Where("id = ?", u.ID).Update("is_active", active).Error
	})
	return active, err
}
