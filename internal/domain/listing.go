package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is the property_listings row built up step by step by the hosting
// wizard. Almost every column stays NULL until its step has run.
type Listing struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	UID    string        `gorm:"column:uid;type:varchar(36);uniqueIndex" json:"uid"`
	UserID uint          `gorm:"column:user_id;index" json:"user_id"`
	Status ListingStatus `gorm:"column:status;not null;default:1;index" json:"status"`

	PropertyTypeID        *uint `gorm:"column:property_type" json:"property_type"`
	IsBeachHouse          *bool `gorm:"column:is_beach_house" json:"is_beach_house"`
	IsDedicatedGuestSpace bool  `gorm:"column:is_dedicated_guest_space;not null;default:false" json:"is_dedicated_guest_space"`
	IsBusinessHosting     bool  `gorm:"column:is_business_hosting;not null;default:false" json:"is_business_hosting"`

	NoOfGuests    int `gorm:"column:no_of_guests;not null;default:0" json:"no_of_guests"`
	NoOfBedrooms  int `gorm:"column:no_of_bedrooms;not null;default:0" json:"no_of_bedrooms"`
	NoOfBathrooms int `gorm:"column:no_of_bathrooms;not null;default:0" json:"no_of_bathrooms"`

	Country         *string  `gorm:"column:country;size:255" json:"country"`
	AddressOptional *string  `gorm:"column:address_optional;size:255" json:"address_optional"`
	Street          *string  `gorm:"column:street;size:255" json:"street"`
	City            *string  `gorm:"column:city;size:255;index" json:"city"`
	State           *string  `gorm:"column:state;size:255" json:"state"`
	ZipCode         *string  `gorm:"column:zip_code;size:255" json:"zip_code"`
	Latitude        *float64 `gorm:"column:latitude;type:decimal(10,6)" json:"latitude"`
	Longitude       *float64 `gorm:"column:longitude;type:decimal(10,6)" json:"longitude"`
	Location        *string  `gorm:"column:location;type:text" json:"location"`

	IsEmailConfirmed    bool `gorm:"column:is_email_confirmed;not null;default:true" json:"is_email_confirmed"`
	IsPhoneConfirmed    bool `gorm:"column:is_phone_confirmed;not null;default:true" json:"is_phone_confirmed"`
	IsPaymentInfo       bool `gorm:"column:is_payment_information;not null;default:true" json:"is_payment_information"`
	IsAgreeHouseRules   bool `gorm:"column:is_agree_hr;not null;default:true" json:"is_agree_hr"`
	IsTripPurpose       bool `gorm:"column:is_trip_purpose;not null;default:true" json:"is_trip_purpose"`
	IsIDSubmitted       bool `gorm:"column:is_id_submitted;not null;default:false" json:"is_id_submitted"`
	IsNoNegativeReviews bool `gorm:"column:is_no_negative_reviews;not null;default:false" json:"is_no_negative_reviews"`

	Description           *string `gorm:"column:description;type:text" json:"description"`
	DescYourSpace         *string `gorm:"column:desc_your_space;type:text" json:"desc_your_space"`
	DescInteractionGuests *string `gorm:"column:desc_interaction_guests;type:text" json:"desc_interaction_guests"`
	DescNeighbourhood     *string `gorm:"column:desc_neighbourhood;type:text" json:"desc_neighbourhood"`
	DescGettingAround     *string `gorm:"column:desc_getting_around;type:text" json:"desc_getting_around"`

	Name           *string `gorm:"column:name;size:255;index" json:"name"`
	CountryCode    *string `gorm:"column:country_code;size:255" json:"country_code"`
	SecPhoneNumber *string `gorm:"column:sec_phone_number;size:255" json:"sec_phone_number"`

	AdvanceNotice *int    `gorm:"column:advance_notice" json:"advance_notice"`
	CutOffTime    *string `gorm:"column:cut_off_time;size:255" json:"cut_off_time"`
	GuestsBook    *string `gorm:"column:guests_book;size:255" json:"guests_book"`
	CheckInAA     *string `gorm:"column:check_in_aa;size:255" json:"check_in_aa"`
	CheckInAB     *string `gorm:"column:check_in_ab;size:255" json:"check_in_ab"`
	CheckInLB     *string `gorm:"column:check_in_lb;size:255" json:"check_in_lb"`
	MinStay       *int    `gorm:"column:min_stay" json:"min_stay"`
	MaxStay       *int    `gorm:"column:max_stay" json:"max_stay"`

	BasePrice    *int `gorm:"column:base_price" json:"base_price"`
	IsDiscount20 bool `gorm:"column:is_discount_20;not null;default:true" json:"is_discount_20"`

	IsLocalLaws       bool  `gorm:"column:is_local_laws;not null;default:true" json:"is_local_laws"`
	IsUpdatedCalender *bool `gorm:"column:is_updated_calender" json:"is_updated_calender"`

	RentedBefore  *int    `gorm:"column:rented_before" json:"rented_before"`
	HaveGuests    *int    `gorm:"column:have_guests" json:"have_guests"`
	NoticeGuestBA *int    `gorm:"column:notice_guest_ba" json:"notice_guest_ba"`
	GuestCIFrom   *string `gorm:"column:guest_ci_from;size:255" json:"guest_ci_from"`
	GuestCITo     *string `gorm:"column:guest_ci_to;size:255" json:"guest_ci_to"`

	WeeklyDiscount  *int `gorm:"column:weekly_discount" json:"weekly_discount"`
	MonthlyDiscount *int `gorm:"column:monthly_discount" json:"monthly_discount"`

	CoverPhoto    *string `gorm:"column:cover_photo;size:512" json:"cover_photo"`
	CoverPhotoURL *string `gorm:"-" json:"cover_photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type         *PropertyType         `gorm:"foreignKey:PropertyTypeID" json:"type,omitempty"`
	Owner        *User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Beds         []Bed                 `gorm:"foreignKey:PropertyID" json:"beds,omitempty"`
	Amenities    []PropertyAmenity     `gorm:"foreignKey:PropertyID" json:"amenities,omitempty"`
	Rules        []PropertyRule        `gorm:"foreignKey:PropertyID" json:"rules,omitempty"`
	Details      []PropertyDetail      `gorm:"foreignKey:PropertyID" json:"details,omitempty"`
	Images       []PropertyImage       `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
	BlockedDates []PropertyBlockedDate `gorm:"foreignKey:PropertyID" json:"blocked_dates,omitempty"`
}

func (Listing) TableName() string {
	return "property_listings"
}

// BeforeCreate sets uid if not already set. uid never changes afterwards.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.UID == "" {
		l.UID = uuid.NewString()
	}
	if !l.Status.Valid() {
		l.Status = StatusDraft
	}
	return nil
}

// Bed is one bed entry of a bedroom (or common space).
type Bed struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PropertyID   uint      `gorm:"column:property_id;index;not null" json:"property_id"`
	BedID        uint      `gorm:"column:bed_id;not null" json:"bed_id"`
	SerialNumber int       `gorm:"column:serial_number;not null;default:0" json:"serial_number"`
	Count        int       `gorm:"column:count;not null;default:1" json:"count"`
	BedroomName  string    `gorm:"column:bedroom_name;size:255;not null" json:"bedroom_name"`
	BedType      *BedType  `gorm:"foreignKey:BedID" json:"bed_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Bed) TableName() string {
	return "property_beds"
}

// PropertyAmenity joins a listing to a canonical amenity.
type PropertyAmenity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"column:property_id;index;not null" json:"property_id"`
	AmenityID  uint      `gorm:"column:amenity_id;not null" json:"amenity_id"`
	Amenity    *Amenity  `gorm:"foreignKey:AmenityID" json:"amenity_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PropertyAmenity) TableName() string {
	return "property_amenities"
}

// PropertyRule is either a fixed rule (RuleID set, optionally cancelled) or
// an additional free-text rule (IsAdditional with Description).
type PropertyRule struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PropertyID   uint      `gorm:"column:property_id;index;not null" json:"property_id"`
	RuleID       *uint     `gorm:"column:rule_id" json:"rule_id"`
	IsCancelled  bool      `gorm:"column:is_cancelled;not null;default:false" json:"is_cancelled"`
	CancelReason *string   `gorm:"column:cancel_reason;type:text" json:"cancel_reason"`
	IsAdditional bool      `gorm:"column:is_additional;not null;default:false" json:"is_additional"`
	Description  *string   `gorm:"column:description;type:text" json:"description"`
	Rule         *HomeRule `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (PropertyRule) TableName() string {
	return "property_rules"
}

// PropertyDetail is the host's explanation for a canonical home detail.
type PropertyDetail struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	PropertyID  uint        `gorm:"column:property_id;index;not null" json:"property_id"`
	DetailID    uint        `gorm:"column:detail_id;not null" json:"detail_id"`
	Explanation *string     `gorm:"column:explanation;size:255" json:"explanation"`
	Detail      *HomeDetail `gorm:"foreignKey:DetailID" json:"detail,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (PropertyDetail) TableName() string {
	return "property_details"
}

// PropertyImage stores the object key; ImageURL is the public URL at upload time.
type PropertyImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PropertyID   uint      `gorm:"column:property_id;index;not null" json:"property_id"`
	ImageKey     string    `gorm:"column:image_key;size:512;not null" json:"image_key"`
	ImageURL     string    `gorm:"column:image_url;size:1024" json:"image_url"`
	SerialNumber int       `gorm:"column:serial_number;not null;default:0" json:"serial_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

// PropertyBlockedDate is a calendar day the host has closed for booking.
type PropertyBlockedDate struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PropertyID  uint           `gorm:"column:property_id;index;not null" json:"property_id"`
	BlockedDate datatypes.Date `gorm:"column:blocked_date;not null" json:"blocked_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (PropertyBlockedDate) TableName() string {
	return "property_blocked_dates"
}
