package listings

import (
	"strings"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Wizard step payloads. Pointer fields distinguish "absent" from a zero value.

type SetTypeInput struct {
	PropertyType          uint  `json:"property_type" validate:"required"`
	IsBeachHouse          *bool `json:"is_beach_house"`
	IsDedicatedGuestSpace *bool `json:"is_dedicated_guest_space" validate:"required"`
	IsBusinessHosting     *bool `json:"is_business_hosting" validate:"required"`
}

type BedInput struct {
	BedID        uint   `json:"bed_id" validate:"required"`
	BedroomName  string `json:"bedroom_name" validate:"required,min=3,max=255"`
	SerialNumber *int   `json:"serial_number" validate:"required,gte=0"`
	Count        int    `json:"count" validate:"gte=1"`
}

type SetBedsInput struct {
	NoOfGuests    int        `json:"no_of_guests" validate:"gte=1"`
	NoOfBedrooms  int        `json:"no_of_bedrooms" validate:"gte=0"`
	NoOfBathrooms int        `json:"no_of_bathrooms" validate:"gte=0"`
	Beds          []BedInput `json:"beds" validate:"required,dive"`
}

type SetAddressInput struct {
	Country         string  `json:"country" validate:"required,max=255"`
	AddressOptional *string `json:"address_optional" validate:"omitempty,max=255"`
	Street          string  `json:"street" validate:"required,max=255"`
	City            string  `json:"city" validate:"required,max=255"`
	State           string  `json:"state" validate:"required,max=255"`
	ZipCode         string  `json:"zip_code" validate:"required,max=255"`
}

type SetLocationInput struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Location  *string  `json:"location" validate:"omitempty,max=2000"`
}

type SetAmenitiesInput struct {
	Amenities []uint `json:"amenities" validate:"required,dive,gt=0"`
}

type SetGuestRequirementsInput struct {
	IsIDSubmitted       *bool `json:"is_id_submitted" validate:"required"`
	IsNoNegativeReviews *bool `json:"is_no_negative_reviews" validate:"required"`
}

// RuleInput is a fixed rule (rule_id) or an additional free-text rule.
type RuleInput struct {
	RuleID       *uint   `json:"rule_id"`
	IsCancelled  bool    `json:"is_cancelled"`
	CancelReason *string `json:"cancel_reason" validate:"omitempty,max=500"`
	IsAdditional bool    `json:"is_additional"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
}

type SetHouseRulesInput struct {
	Rules []RuleInput `json:"rules" validate:"required,dive"`
}

type DetailInput struct {
	DetailID    uint    `json:"detail_id" validate:"required"`
	Explanation *string `json:"explanation" validate:"omitempty,max=255"`
}

type SetPropertyDetailsInput struct {
	Details []DetailInput `json:"details" validate:"required,dive"`
}

type SetDescriptionInput struct {
	Description           string  `json:"description" validate:"required,max=500"`
	DescYourSpace         *string `json:"desc_your_space" validate:"omitempty,max=1000"`
	DescInteractionGuests *string `json:"desc_interaction_guests" validate:"omitempty,max=1000"`
	DescNeighbourhood     *string `json:"desc_neighbourhood" validate:"omitempty,max=1000"`
	DescGettingAround     *string `json:"desc_getting_around" validate:"omitempty,max=1000"`
}

type SetNameInput struct {
	Name string `json:"name" validate:"required,min=3,max=255"`
}

type SetSecondaryPhoneInput struct {
	CountryCode    string `json:"country_code" validate:"required,max=5"`
	SecPhoneNumber string `json:"sec_phone_number" validate:"required,phone"`
}

type SetAvailabilityInput struct {
	AdvanceNotice *int    `json:"advance_notice" validate:"required,oneof=0 1 2 3 7"`
	CutOffTime    string  `json:"cut_off_time" validate:"required,max=255"`
	GuestsBook    string  `json:"guests_book" validate:"required,max=255"`
	CheckInAA     *string `json:"check_in_aa" validate:"omitempty,max=255"`
	CheckInAB     *string `json:"check_in_ab" validate:"omitempty,max=255"`
	CheckInLB     *string `json:"check_in_lb" validate:"omitempty,max=255"`
	MinStay       *int    `json:"min_stay" validate:"required,gte=1"`
	MaxStay       *int    `json:"max_stay" validate:"required,gte=1"`
}

type SetPricingInput struct {
	BasePrice    *int  `json:"base_price" validate:"required,gte=1"`
	IsDiscount20 *bool `json:"is_discount_20" validate:"required"`
}

type SetLawsAndCalendarInput struct {
	IsLocalLaws       *bool    `json:"is_local_laws" validate:"required"`
	IsUpdatedCalender *bool    `json:"is_updated_calender" validate:"required"`
	BlockedDates      []string `json:"blocked_dates" validate:"omitempty,dive,datetime=2006-01-02"`
}

type SetQuestionsInput struct {
	RentedBefore  *int    `json:"rented_before" validate:"omitempty,oneof=1 2"`
	HaveGuests    *int    `json:"have_guests" validate:"required,oneof=1 2 3"`
	NoticeGuestBA *int    `json:"notice_guest_ba" validate:"omitempty,oneof=0 1 2 3 7"`
	GuestCIFrom   *string `json:"guest_ci_from" validate:"omitempty,max=255"`
	GuestCITo     *string `json:"guest_ci_to" validate:"omitempty,max=255"`
}

type SetDiscountsInput struct {
	WeeklyDiscount  *int `json:"weekly_discount" validate:"required,gte=0,lte=99"`
	MonthlyDiscount *int `json:"monthly_discount" validate:"required,gte=0,lte=99"`
}

type ImageInput struct {
	ImageKey string `json:"image_key" validate:"required,max=512"`
	ImageURL string `json:"image_url" validate:"omitempty,max=1024"`
}

type SetPhotosInput struct {
	Images     []ImageInput `json:"images" validate:"required,min=1,dive"`
	CoverPhoto string       `json:"cover_photo" validate:"required,max=512"`
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// ruleInputRules: a fixed rule needs rule_id; a cancelled rule needs a reason;
// an additional rule needs its text.
func ruleInputRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(RuleInput)
	validation.RequireWhen(sl, !r.IsAdditional, r.RuleID != nil, "rule_id", "is_additional is false")
	validation.RequireWhen(sl, r.IsCancelled, present(r.CancelReason), "cancel_reason", "is_cancelled is true")
	validation.RequireWhen(sl, r.IsAdditional, present(r.Description), "description", "is_additional is true")
}

// questionsRules: exactly one of rented_before / notice_guest_ba.
func questionsRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(SetQuestionsInput)
	validation.RequireExactlyOne(sl, q.RentedBefore != nil, q.NoticeGuestBA != nil, "rented_before", "notice_guest_ba")
}

func availabilityRules(sl validator.StructLevel) {
	a := sl.Current().Interface().(SetAvailabilityInput)
	if a.MinStay != nil && a.MaxStay != nil && *a.MaxStay < *a.MinStay {
		sl.ReportError(nil, "max_stay", "max_stay", "gtefield", "min_stay")
	}
}

func photosRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(SetPhotosInput)
	if p.CoverPhoto == "" {
		return
	}
	for _, img := range p.Images {
		if img.ImageKey == p.CoverPhoto {
			return
		}
	}
	sl.ReportError(nil, "cover_photo", "cover_photo", "cover_in_images", "")
}

func newValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructRule(ruleInputRules, RuleInput{})
	v.RegisterStructRule(questionsRules, SetQuestionsInput{})
	v.RegisterStructRule(availabilityRules, SetAvailabilityInput{})
	v.RegisterStructRule(photosRules, SetPhotosInput{})
	return v
}
