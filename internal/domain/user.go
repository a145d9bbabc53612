package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Login types accepted by register and social-login.
const (
	LoginTypeEmail    = "EMAIL"
	LoginTypePhone    = "PHONE"
	LoginTypeGoogle   = "GOOGLE"
	LoginTypeFacebook = "FACEBOOK"
	LoginTypeApple    = "APPLE"
)

// User is a traveller/host account. Rows are never removed: IsDeleted is the
// soft-delete flag and IsActive is an independent admin switch.
type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UID         string  `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	FirstName   string  `gorm:"column:first_name;size:255" json:"first_name"`
	LastName    string  `gorm:"column:last_name;size:255" json:"last_name"`
	DOB         *string `gorm:"column:dob;size:32" json:"dob"`
	Email       *string `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Avatar      *string `gorm:"column:avatar;size:512" json:"avatar"`
	CountryCode *string `gorm:"column:country_code;size:16" json:"country_code"`
	PhoneNumber *string `gorm:"column:phone_number;size:32;index" json:"phone_number"`
	Username    *string `gorm:"column:username;size:64" json:"username"`
	Password    *string `gorm:"column:password;size:255" json:"-"`
	DeviceType  *string `gorm:"column:device_type;size:32" json:"device_type,omitempty"`

	GoogleID      *string `gorm:"column:google_id;size:255;index" json:"-"`
	GoogleToken   *string `gorm:"column:google_token;type:text" json:"-"`
	FacebookID    *string `gorm:"column:facebook_id;size:255;index" json:"-"`
	FacebookToken *string `gorm:"column:facebook_token;type:text" json:"-"`
	AppleID       *string `gorm:"column:apple_id;size:255;index" json:"-"`
	AppleToken    *string `gorm:"column:apple_token;type:text" json:"-"`

	LoginType  string `gorm:"column:login_type;size:16" json:"login_type"`
	IsVerified bool   `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	IsActive   bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsDeleted  bool   `gorm:"column:is_deleted;not null;default:false" json:"-"`

	AvatarURL *string `gorm:"-" json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets uid if not set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	return nil
}

// SocialColumns returns the id and token column names for a social login type,
// e.g. GOOGLE -> google_id, google_token. ok is false for non-social types.
func SocialColumns(loginType string) (idCol, tokenCol string, ok bool) {
	switch strings.ToUpper(loginType) {
	case LoginTypeGoogle, LoginTypeFacebook, LoginTypeApple:
		p := strings.ToLower(loginType)
		return p + "_id", p + "_token", true
	}
	return "", "", false
}

// Admin is a back-office account; it shares no rows with users.
type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	CountryCode *string   `gorm:"column:country_code;size:16" json:"country_code"`
	PhoneNumber *string   `gorm:"column:phone_number;size:32" json:"phone_number"`
	Password    string    `gorm:"column:password;size:255;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
