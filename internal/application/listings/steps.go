package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const msgDoesNotExist = "does not exist"

// SetType starts a draft when listingID is nil, otherwise it rewrites the
// type answers of an existing listing. created reports which one happened.
func (s *Service) SetType(ctx context.Context, ownerID uint, listingID *uint, in SetTypeInput) (l *domain.Listing, created bool, err error) {
	if err := s.validate(in); err != nil {
		return nil, false, err
	}

	var pt domain.PropertyType
	err = s.DB.WithContext(ctx).First(&pt, in.PropertyType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.Field("property_type", msgDoesNotExist)
	}
	if err != nil {
		return nil, false, err
	}
	// answers for types that never ask the question are dropped
	if !pt.AsksBeachHouse() {
		in.IsBeachHouse = nil
	}

	if listingID == nil {
		row := domain.Listing{
			UserID:                ownerID,
			Status:                domain.StatusDraft,
			PropertyTypeID:        &pt.ID,
			IsBeachHouse:          in.IsBeachHouse,
			IsDedicatedGuestSpace: *in.IsDedicatedGuestSpace,
			IsBusinessHosting:     *in.IsBusinessHosting,
		}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, false, err
		}
		l, err = s.Projection(ctx, row.ID)
		return l, true, err
	}

	l, err = s.updateColumns(ctx, ownerID, *listingID, map[string]interface{}{
		"property_type":            pt.ID,
		"is_beach_house":           nullable(in.IsBeachHouse),
		"is_dedicated_guest_space": *in.IsDedicatedGuestSpace,
		"is_business_hosting":      *in.IsBusinessHosting,
	})
	return l, false, err
}

// SetBeds writes the counts and replaces the bed rows.
func (s *Service) SetBeds(ctx context.Context, ownerID, listingID uint, in SetBedsInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(in.Beds))
		for _, b := range in.Beds {
			ids = append(ids, b.BedID)
		}
		if err := requireAll(tx, &domain.BedType{}, ids, "beds"); err != nil {
			return err
		}
		err := tx.Model(&domain.Listing{}).Where("id = ?", listingID).Updates(map[string]interface{}{
			"no_of_guests":    in.NoOfGuests,
			"no_of_bedrooms":  in.NoOfBedrooms,
			"no_of_bathrooms": in.NoOfBathrooms,
		}).Error
		if err != nil {
			return err
		}
		rows := make([]domain.Bed, 0, len(in.Beds))
		for _, b := range in.Beds {
			rows = append(rows, domain.Bed{
				PropertyID:   listingID,
				BedID:        b.BedID,
				SerialNumber: *b.SerialNumber,
				Count:        b.Count,
				BedroomName:  strings.TrimSpace(b.BedroomName),
			})
		}
		return replaceChildren(tx, listingID, rows)
	})
}

func (s *Service) SetAddress(ctx context.Context, ownerID, listingID uint, in SetAddressInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"country":          in.Country,
		"address_optional": nullable(in.AddressOptional),
		"street":           in.Street,
		"city":             in.City,
		"state":            in.State,
		"zip_code":         in.ZipCode,
	})
}

func (s *Service) SetLocation(ctx context.Context, ownerID, listingID uint, in SetLocationInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"latitude":  *in.Latitude,
		"longitude": *in.Longitude,
		"location":  nullable(in.Location),
	})
}

// SetAmenities replaces the listing's amenity set with exactly the given ids.
func (s *Service) SetAmenities(ctx context.Context, ownerID, listingID uint, in SetAmenitiesInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.Amenities)
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		if err := requireAll(tx, &domain.Amenity{}, ids, "amenities"); err != nil {
			return err
		}
		rows := make([]domain.PropertyAmenity, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, domain.PropertyAmenity{PropertyID: listingID, AmenityID: id})
		}
		return replaceChildren(tx, listingID, rows)
	})
}

func (s *Service) SetGuestRequirements(ctx context.Context, ownerID, listingID uint, in SetGuestRequirementsInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"is_id_submitted":        *in.IsIDSubmitted,
		"is_no_negative_reviews": *in.IsNoNegativeReviews,
	})
}

// SetHouseRules replaces fixed and additional rules in one go.
func (s *Service) SetHouseRules(ctx context.Context, ownerID, listingID uint, in SetHouseRulesInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		var ids []uint
		for _, r := range in.Rules {
			if !r.IsAdditional && r.RuleID != nil {
				ids = append(ids, *r.RuleID)
			}
		}
		if err := requireAll(tx, &domain.HomeRule{}, uniqueIDs(ids), "rules"); err != nil {
			return err
		}
		rows := make([]domain.PropertyRule, 0, len(in.Rules))
		for _, r := range in.Rules {
			row := domain.PropertyRule{PropertyID: listingID, IsAdditional: r.IsAdditional}
			if r.IsAdditional {
				row.Description = r.Description
			} else {
				row.RuleID = r.RuleID
				row.IsCancelled = r.IsCancelled
				if r.IsCancelled {
					row.CancelReason = r.CancelReason
				}
			}
			rows = append(rows, row)
		}
		return replaceChildren(tx, listingID, rows)
	})
}

func (s *Service) SetPropertyDetails(ctx context.Context, ownerID, listingID uint, in SetPropertyDetailsInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(in.Details))
		for _, d := range in.Details {
			ids = append(ids, d.DetailID)
		}
		if err := requireAll(tx, &domain.HomeDetail{}, uniqueIDs(ids), "details"); err != nil {
			return err
		}
		rows := make([]domain.PropertyDetail, 0, len(in.Details))
		for _, d := range in.Details {
			rows = append(rows, domain.PropertyDetail{PropertyID: listingID, DetailID: d.DetailID, Explanation: d.Explanation})
		}
		return replaceChildren(tx, listingID, rows)
	})
}

func (s *Service) SetDescription(ctx context.Context, ownerID, listingID uint, in SetDescriptionInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"description":             in.Description,
		"desc_your_space":         nullable(in.DescYourSpace),
		"desc_interaction_guests": nullable(in.DescInteractionGuests),
		"desc_neighbourhood":      nullable(in.DescNeighbourhood),
		"desc_getting_around":     nullable(in.DescGettingAround),
	})
}

func (s *Service) SetName(ctx context.Context, ownerID, listingID uint, in SetNameInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"name": strings.TrimSpace(in.Name),
	})
}

func (s *Service) SetSecondaryPhone(ctx context.Context, ownerID, listingID uint, in SetSecondaryPhoneInput) (*domain.Listing, error) {
	in.SecPhoneNumber = validation.NormalizePhone(in.SecPhoneNumber)
	in.CountryCode = validation.NormalizeCountryCode(in.CountryCode)
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"country_code":     in.CountryCode,
		"sec_phone_number": in.SecPhoneNumber,
	})
}

func (s *Service) SetAvailability(ctx context.Context, ownerID, listingID uint, in SetAvailabilityInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"advance_notice": *in.AdvanceNotice,
		"cut_off_time":   in.CutOffTime,
		"guests_book":    in.GuestsBook,
		"check_in_aa":    nullable(in.CheckInAA),
		"check_in_ab":    nullable(in.CheckInAB),
		"check_in_lb":    nullable(in.CheckInLB),
		"min_stay":       *in.MinStay,
		"max_stay":       *in.MaxStay,
	})
}

func (s *Service) SetPricing(ctx context.Context, ownerID, listingID uint, in SetPricingInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"base_price":     *in.BasePrice,
		"is_discount_20": *in.IsDiscount20,
	})
}

// SetLawsAndCalendar stores the two acknowledgements. When blocked_dates is
// sent the blocked calendar is replaced with those days.
func (s *Service) SetLawsAndCalendar(ctx context.Context, ownerID, listingID uint, in SetLawsAndCalendarInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	days := make([]domain.PropertyBlockedDate, 0, len(in.BlockedDates))
	seen := make(map[string]bool, len(in.BlockedDates))
	for _, raw := range in.BlockedDates {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperr.Field("blocked_dates", "must be a date in format 2006-01-02")
		}
		days = append(days, domain.PropertyBlockedDate{PropertyID: listingID, BlockedDate: datatypes.Date(d)})
	}
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		err := tx.Model(&domain.Listing{}).Where("id = ?", listingID).Updates(map[string]interface{}{
			"is_local_laws":       *in.IsLocalLaws,
			"is_updated_calender": *in.IsUpdatedCalender,
		}).Error
		if err != nil {
			return err
		}
		if in.BlockedDates == nil {
			return nil
		}
		return replaceChildren(tx, listingID, days)
	})
}

// SetQuestions stores the hosting questionnaire. The unanswered one of
// rented_before and notice_guest_ba is cleared.
func (s *Service) SetQuestions(ctx context.Context, ownerID, listingID uint, in SetQuestionsInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"rented_before":   nullable(in.RentedBefore),
		"have_guests":     *in.HaveGuests,
		"notice_guest_ba": nullable(in.NoticeGuestBA),
		"guest_ci_from":   nullable(in.GuestCIFrom),
		"guest_ci_to":     nullable(in.GuestCITo),
	})
}

func (s *Service) SetDiscounts(ctx context.Context, ownerID, listingID uint, in SetDiscountsInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.updateColumns(ctx, ownerID, listingID, map[string]interface{}{
		"weekly_discount":  *in.WeeklyDiscount,
		"monthly_discount": *in.MonthlyDiscount,
	})
}

// SetPhotos replaces the image list, in request order, and sets the cover.
func (s *Service) SetPhotos(ctx context.Context, ownerID, listingID uint, in SetPhotosInput) (*domain.Listing, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		rows := make([]domain.PropertyImage, 0, len(in.Images))
		for i, img := range in.Images {
			rows = append(rows, domain.PropertyImage{
				PropertyID:   listingID,
				ImageKey:     img.ImageKey,
				ImageURL:     img.ImageURL,
				SerialNumber: i + 1,
			})
		}
		if err := replaceChildren(tx, listingID, rows); err != nil {
			return err
		}
		return tx.Model(&domain.Listing{}).Where("id = ?", listingID).Update("cover_photo", in.CoverPhoto).Error
	})
}

// Publish moves an owned listing to published. Blocked and deleted listings
// cannot be published by their host.
func (s *Service) Publish(ctx context.Context, ownerID, listingID uint) (*domain.Listing, error) {
	return s.inTx(ctx, ownerID, listingID, func(tx *gorm.DB) error {
		var l domain.Listing
		if err := tx.Select("id", "status").First(&l, listingID).Error; err != nil {
			return err
		}
		if !l.Status.CanPublish() {
			return apperr.Forbidden(MsgBlocked)
		}
		return tx.Model(&domain.Listing{}).Where("id = ?", listingID).Update("status", domain.StatusPublished).Error
	})
}

// requireAll fails with a field error on field unless every id exists.
func requireAll(tx *gorm.DB, model interface{}, ids []uint, field string) error {
	ids = uniqueIDs(ids)
	n, err := countExisting(tx, model, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return apperr.Field(field, msgDoesNotExist)
	}
	return nil
}
