package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical reference tables. Seeded once, referenced by id from child rows.

type PropertyType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	Name      string    `gorm:"column:property_type;size:255;not null;uniqueIndex" json:"property_type"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (PropertyType) TableName() string { return "property_types" }

func (p *PropertyType) BeforeCreate(tx *gorm.DB) error {
	if p.UID == "" {
		p.UID = uuid.NewString()
	}
	return nil
}

// AsksBeachHouse reports whether the beach-house question applies to
// listings of this type. The answer stays optional.
func (p PropertyType) AsksBeachHouse() bool {
	switch p.Name {
	case PropertyTypeVilla, PropertyTypeApartment:
		return true
	}
	return false
}

const (
	PropertyTypeVilla     = "Villa"
	PropertyTypeApartment = "Apartment"
)

type BedType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	Name      string    `gorm:"column:bed_type;size:255;not null;uniqueIndex" json:"bed_type"`
	Icon      *string   `gorm:"column:icon;size:255" json:"icon"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (BedType) TableName() string { return "bed_types" }

func (b *BedType) BeforeCreate(tx *gorm.DB) error {
	if b.UID == "" {
		b.UID = uuid.NewString()
	}
	return nil
}

// Amenity types.
const (
	AmenityTypeSpace  = "space"
	AmenityTypeSafety = "safety"
	AmenityTypeNormal = "normal"
)

type Amenity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UID         string    `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	Type        string    `gorm:"column:type;size:16;not null;default:normal" json:"type"`
	Name        string    `gorm:"column:name;size:255;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	IconURL     *string   `gorm:"column:icon_url;size:255" json:"icon_url"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Amenity) TableName() string { return "amenities" }

func (a *Amenity) BeforeCreate(tx *gorm.DB) error {
	if a.UID == "" {
		a.UID = uuid.NewString()
	}
	return nil
}

type HomeRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	Rule      string    `gorm:"column:rule;size:255;not null;uniqueIndex" json:"rule"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (HomeRule) TableName() string { return "home_rules" }

func (h *HomeRule) BeforeCreate(tx *gorm.DB) error {
	if h.UID == "" {
		h.UID = uuid.NewString()
	}
	return nil
}

type HomeDetail struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UID         string    `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	Name        string    `gorm:"column:name;size:255;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (HomeDetail) TableName() string { return "home_details" }

func (h *HomeDetail) BeforeCreate(tx *gorm.DB) error {
	if h.UID == "" {
		h.UID = uuid.NewString()
	}
	return nil
}
