// Package auth implements account lookup, phone verification, registration
// and login for travellers and hosts.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/i18n"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Client-facing messages.
const (
	MsgCreateAccount      = "Create Account"
	MsgWelcomeBack        = "Welcome back, %s"
	MsgEmailOrPhone       = "Email or Phone number required"
	MsgIncorrectOTP       = "Incorrect OTP"
	MsgOTPExpired         = "OTP expired"
	MsgOTPError           = "OTP error"
	MsgTooManyOTP         = "Too many OTP requests, please try again later"
	MsgInvalidCredentials = "Invalid credentials"
	MsgEmailExists        = "Email already exists"
	MsgPhoneExists        = "Phone number already exists"
	MsgInactive           = "Your account is inactive, please contact Admin"
)

// Outcome tells the handler which branch CheckAccount took.
type Outcome int

const (
	OutcomeExisting Outcome = iota + 1
	OutcomeOTPSent
)

type CheckAccountInput struct {
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	CountryCode string `json:"country_code" validate:"omitempty,country_code"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

type CheckAccountResult struct {
	Outcome Outcome `json:"-"`
	Email   string  `json:"email,omitempty"`
	Message string  `json:"message,omitempty"`
	OTPSid  string  `json:"otp_sid,omitempty"`
}

type PhoneInput struct {
	CountryCode string `json:"country_code" validate:"required,country_code"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type VerifyOTPInput struct {
	CountryCode string `json:"country_code" validate:"required,country_code"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	OTP         string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

type RegisterInput struct {
	Email       string  `json:"email" validate:"required,email,max=255"`
	FirstName   string  `json:"first_name" validate:"required,max=255"`
	LastName    string  `json:"last_name" validate:"required,max=255"`
	Password    *string `json:"password" validate:"omitempty,password"`
	DOB         *string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=512"`
	CountryCode *string `json:"country_code" validate:"omitempty,country_code"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	LoginType   string  `json:"login_type" validate:"required,oneof=EMAIL PHONE GOOGLE FACEBOOK APPLE"`
	SocialID    *string `json:"social_id" validate:"omitempty,max=255"`
	SocialToken *string `json:"social_token"`
	DeviceType  *string `json:"device_type" validate:"omitempty,max=32"`
}

type LoginInput struct {
	Email       string `json:"email" validate:"omitempty,email"`
	CountryCode string `json:"country_code" validate:"omitempty,country_code"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	Password    string `json:"password" validate:"required"`
}

type SocialLoginInput struct {
	LoginType   string  `json:"login_type" validate:"required,oneof=GOOGLE FACEBOOK APPLE"`
	SocialID    string  `json:"social_id" validate:"required,max=255"`
	SocialToken *string `json:"social_token"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// Session is returned by register and every login flavour.
type Session struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

type Service struct {
	DB       *gorm.DB
	OTP      otp.Provider
	Tokens   *token.Issuer
	AssetURL string

	validator *validation.Validator
}

func NewService(db *gorm.DB, provider otp.Provider, tokens *token.Issuer, assetURL string) *Service {
	v := validation.New()
	v.RegisterStructRule(registerRules, RegisterInput{})
	v.RegisterStructRule(loginRules, LoginInput{})
	return &Service{DB: db, OTP: provider, Tokens: tokens, AssetURL: assetURL, validator: v}
}

func registerRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(RegisterInput)
	_, _, social := domain.SocialColumns(in.LoginType)
	validation.RequireWhen(sl, !social, in.Password != nil && *in.Password != "", "password", "login_type is EMAIL or PHONE")
	validation.RequireWhen(sl, social, in.SocialID != nil && *in.SocialID != "", "social_id", "login_type is a social provider")
	validation.RequireWhen(sl, in.LoginType == domain.LoginTypePhone, in.PhoneNumber != nil, "phone_number", "login_type is PHONE")
	validation.RequireWhen(sl, in.PhoneNumber != nil, in.CountryCode != nil, "country_code", "phone_number is present")
}

func loginRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(LoginInput)
	if in.Email == "" {
		validation.RequireWhen(sl, true, in.PhoneNumber != "", "phone_number", "email is absent")
		validation.RequireWhen(sl, in.PhoneNumber != "", in.CountryCode != "", "country_code", "phone_number is present")
	}
}

func fullPhone(countryCode, phone string) string {
	return countryCode + phone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckAccount tells the client whether to log in or register. Unknown phone
// numbers get an OTP straight away.
func (s *Service) CheckAccount(ctx context.Context, in CheckAccountInput) (*CheckAccountResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if in.Email == "" && (in.PhoneNumber == "" || in.CountryCode == "") {
		return nil, apperr.Validation(MsgEmailOrPhone, nil)
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx).Where("is_deleted = ?", false)
	if in.Email != "" {
		var u domain.User
		err := db.Where("email = ?", in.Email).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(MsgCreateAccount)
		}
		if err != nil {
			return nil, err
		}
		return &CheckAccountResult{Outcome: OutcomeExisting, Email: in.Email, Message: i18n.T(ctx, MsgWelcomeBack, u.FirstName)}, nil
	}

	var u domain.User
	err := db.Where("country_code = ? AND phone_number = ?", in.CountryCode, in.PhoneNumber).First(&u).Error
	if err == nil {
		return &CheckAccountResult{Outcome: OutcomeExisting, Message: i18n.T(ctx, MsgWelcomeBack, u.FirstName)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sid, err := s.sendOTP(ctx, in.CountryCode, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &CheckAccountResult{Outcome: OutcomeOTPSent, OTPSid: sid}, nil
}

// ResendOTP sends a fresh code to the number.
func (s *Service) ResendOTP(ctx context.Context, in PhoneInput) (string, error) {
	in.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if err := s.validator.Validate(in); err != nil {
		return "", err
	}
	return s.sendOTP(ctx, in.CountryCode, in.PhoneNumber)
}

func (s *Service) sendOTP(ctx context.Context, countryCode, phone string) (string, error) {
	sid, err := s.OTP.Send(ctx, fullPhone(countryCode, phone))
	if errors.Is(err, otp.ErrRateLimited) {
		return "", apperr.Upstream(MsgTooManyOTP, err)
	}
	if err != nil {
		return "", apperr.Upstream(MsgOTPError, err)
	}
	return sid, nil
}

// VerifyOTP checks a code sent by CheckAccount or ResendOTP.
func (s *Service) VerifyOTP(ctx context.Context, in VerifyOTPInput) (otp.Result, error) {
	in.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if err := s.validator.Validate(in); err != nil {
		return otp.Result{}, err
	}
	return CheckCode(ctx, s.OTP, fullPhone(in.CountryCode, in.PhoneNumber), in.OTP)
}

// CheckCode verifies code with provider and maps the outcome to apperr kinds.
func CheckCode(ctx context.Context, provider otp.Provider, phone, code string) (otp.Result, error) {
	res, err := provider.Verify(ctx, phone, code)
	switch {
	case errors.Is(err, otp.ErrExpired):
		return otp.Result{}, apperr.Gone(MsgOTPExpired)
	case errors.Is(err, otp.ErrRateLimited):
		return otp.Result{}, apperr.Upstream(MsgTooManyOTP, err)
	case err != nil:
		return otp.Result{}, apperr.Upstream(MsgOTPError, err)
	case !res.Valid:
		return res, apperr.Validation(MsgIncorrectOTP, nil)
	}
	return res, nil
}

// Register creates the account and logs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.LoginType = strings.ToUpper(strings.TrimSpace(in.LoginType))
	if in.PhoneNumber != nil {
		p := validation.NormalizePhone(*in.PhoneNumber)
		in.PhoneNumber = &p
	}
	if in.CountryCode != nil {
		c := validation.NormalizeCountryCode(*in.CountryCode)
		in.CountryCode = &c
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	u := &domain.User{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		DOB:         in.DOB,
		Email:       &in.Email,
		Avatar:      in.Avatar,
		CountryCode: in.CountryCode,
		PhoneNumber: in.PhoneNumber,
		DeviceType:  in.DeviceType,
		LoginType:   in.LoginType,
		IsActive:    true,
	}
	if in.PhoneNumber != nil && in.CountryCode != nil {
		username := strings.TrimPrefix(*in.CountryCode, "+") + *in.PhoneNumber
		u.Username = &username
		u.IsVerified = in.LoginType == domain.LoginTypePhone
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		u.Password = &h
	}
	setSocial(u, in.LoginType, in.SocialID, in.SocialToken)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict(MsgEmailExists)
		}
		if u.PhoneNumber != nil {
			if err := tx.Model(&domain.User{}).
				Where("country_code = ? AND phone_number = ? AND is_deleted = ?", *u.CountryCode, *u.PhoneNumber, false).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return apperr.Conflict(MsgPhoneExists)
			}
		}
		return tx.Create(u).Error
	})
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func setSocial(u *domain.User, loginType string, id, tok *string) {
	switch loginType {
	case domain.LoginTypeGoogle:
		u.GoogleID, u.GoogleToken = id, tok
	case domain.LoginTypeFacebook:
		u.FacebookID, u.FacebookToken = id, tok
	case domain.LoginTypeApple:
		u.AppleID, u.AppleToken = id, tok
	}
}

// Login authenticates with email or phone plus password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.PhoneNumber = validation.NormalizePhone(in.PhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Where("is_deleted = ?", false)
	if in.Email != "" {
		q = q.Where("email = ?", in.Email)
	} else {
		q = q.Where("country_code = ? AND phone_number = ?", in.CountryCode, in.PhoneNumber)
	}
	var u domain.User
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if u.Password == nil || bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(in.Password)) != nil {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}
	if !u.IsActive {
		return nil, apperr.Forbidden(MsgInactive)
	}
	return s.session(&u)
}

// SocialLogin finds the account by provider id, or by email (linking the
// provider), and logs it in.
func (s *Service) SocialLogin(ctx context.Context, in SocialLoginInput) (*Session, error) {
	in.LoginType = strings.ToUpper(strings.TrimSpace(in.LoginType))
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	idCol, tokenCol, _ := domain.SocialColumns(in.LoginType)

	var u domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where(idCol+" = ? AND is_deleted = ?", in.SocialID, false).First(&u).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if in.Email == nil || *in.Email == "" {
			return apperr.NotFound(MsgCreateAccount)
		}
		err = tx.Where("email = ? AND is_deleted = ?", normalizeEmail(*in.Email), false).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(MsgCreateAccount)
		}
		if err != nil {
			return err
		}
		link := map[string]interface{}{idCol: in.SocialID}
		if in.SocialToken != nil {
			link[tokenCol] = *in.SocialToken
		}
		if err := tx.Model(&u).Updates(link).Error; err != nil {
			return err
		}
		return tx.First(&u, u.ID).Error
	})
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Forbidden(MsgInactive)
	}
	return s.session(&u)
}

func (s *Service) session(u *domain.User) (*Session, error) {
	tok, err := s.Tokens.Issue(u.UID, token.RoleUser)
	if err != nil {
		return nil, err
	}
	if u.Avatar != nil {
		url := storage.PublicURL(s.AssetURL, *u.Avatar)
		u.AvatarURL = &url
	}
	return &Session{User: u, AccessToken: tok}, nil
}
