package database

import (
	"context"
	"fmt"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var seedPropertyTypes = []string{"Villa", "Apartment", "Farm House", "Istiraha", "Camp", "Heritage House"}

var seedBedTypes = []string{"double", "queen", "single", "sofa bed"}

var seedHomeDetails = []domain.HomeDetail{
	{Name: "Must Climb Stairs", Description: strPtr("Describe the stairs(for example, how many flights)")},
	{Name: "Potential for noise", Description: strPtr("Describe if the property is susceptible to noise?")},
	{Name: "Pet(s) live on property", Description: strPtr("Describe what kinds of pets live on the property?")},
	{Name: "No parking on property", Description: strPtr("Explain where can a guest can park their vehicles( any places near by)")},
	{Name: "Some space are shared", Description: strPtr("Explain if any part of the space is shared with someone else?")},
	{Name: "Amenity limitations", Description: strPtr("Are there any limitations of the amenitites, please explain?")},
	{Name: "Surveillance or recording devices on property", Description: strPtr("Explain if there are any of such devices on the property?")},
	{Name: "Weapons on Property", Description: strPtr("Describe if any object that can be considered as a weapon is on the property?")},
	{Name: "Dangerous animals on property", Description: strPtr("Describe if there any dangerous animals kept on the property(Eg. Lion)")},
}

var seedHomeRules = []string{
	"Must Climb Stairs",
	"Potential for noise",
	"Pet(s) live on property",
	"No parking on property",
	"Some space are shared",
	"Amenity limitations",
	"Surveillance or recording devices on property",
	"Weapons on Property",
	"Dangerous animals on property",
}

var seedAmenities = []domain.Amenity{
	{Type: domain.AmenityTypeNormal, Name: "Wifi", IconURL: strPtr("wifi.png")},
	{Type: domain.AmenityTypeNormal, Name: "TV", IconURL: strPtr("tv.png")},
	{Type: domain.AmenityTypeNormal, Name: "Hot Water", IconURL: strPtr("hot_water.png")},
	{Type: domain.AmenityTypeNormal, Name: "Air Conditioning", IconURL: strPtr("air_conditioning.png")},
	{Type: domain.AmenityTypeNormal, Name: "Shampoo", IconURL: strPtr("shampoo.png")},
	{Type: domain.AmenityTypeNormal, Name: "Hair Dryer", IconURL: strPtr("hair_dryer.png")},
	{Type: domain.AmenityTypeNormal, Name: "Dedicated Workspace", IconURL: strPtr("dedicated_workspace.png")},
	{Type: domain.AmenityTypeNormal, Name: "Cooking basics", Description: strPtr("Pots and pans, oil salt and pepper"), IconURL: strPtr("cooking_basics.png")},
	{Type: domain.AmenityTypeNormal, Name: "Bathroom essentials", Description: strPtr("Towels, soap, shampoo and toilet paper"), IconURL: strPtr("bathroom_essentials.png")},
	{Type: domain.AmenityTypeNormal, Name: "Bath Towel", IconURL: strPtr("bath_towel.png")},
	{Type: domain.AmenityTypeNormal, Name: "Toilet Paper", IconURL: strPtr("toilet_paper.png")},
	{Type: domain.AmenityTypeNormal, Name: "Body Soap", IconURL: strPtr("body_soap.png")},
	{Type: domain.AmenityTypeNormal, Name: "Hand Soap", IconURL: strPtr("hand_soap.png")},
	{Type: domain.AmenityTypeNormal, Name: "Bed Linens", IconURL: strPtr("bed_linens.png")},
	{Type: domain.AmenityTypeNormal, Name: "Fireplace", IconURL: strPtr("fireplace.png")},
	{Type: domain.AmenityTypeNormal, Name: "Private Entrance", IconURL: strPtr("private_entrance.png")},
	{Type: domain.AmenityTypeSafety, Name: "Smoke Alarm", Description: strPtr("Check your local laws which may require a working smoke detector in every room"), IconURL: strPtr("smoke_alarm.png")},
	{Type: domain.AmenityTypeSafety, Name: "Carbon monoxide Alarm", Description: strPtr("Check your local laws which may require a working carbon monoxide detector in every room"), IconURL: strPtr("carbon_monoxide_alarm.png")},
	{Type: domain.AmenityTypeSafety, Name: "Lock on Bedroom door", Description: strPtr("Private room can be locked for safety and privacy"), IconURL: strPtr("lock_bedroom_door.png")},
	{Type: domain.AmenityTypeSpace, Name: "Kitchen", Description: strPtr("Space where guests can cook their own meal"), IconURL: strPtr("kitchen.png")},
	{Type: domain.AmenityTypeSpace, Name: "Free Parking on premises", IconURL: strPtr("free_parking.png")},
	{Type: domain.AmenityTypeSpace, Name: "Washer", IconURL: strPtr("washer.png")},
	{Type: domain.AmenityTypeSpace, Name: "Hot Tub", IconURL: strPtr("hot_tub.png")},
	{Type: domain.AmenityTypeSpace, Name: "Pool", IconURL: strPtr("pool.png")},
	{Type: domain.AmenityTypeSpace, Name: "Paid Parking off premises", IconURL: strPtr("paid_parking.png")},
}

// SeedLookups fills the canonical reference tables. Rows are matched by name,
// so running it again is a no-op.
func SeedLookups(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range seedPropertyTypes {
			if err := tx.Where(domain.PropertyType{Name: name}).FirstOrCreate(&domain.PropertyType{}).Error; err != nil {
				return fmt.Errorf("seed property type %q: %w", name, err)
			}
		}
		for _, name := range seedBedTypes {
			if err := tx.Where(domain.BedType{Name: name}).FirstOrCreate(&domain.BedType{}).Error; err != nil {
				return fmt.Errorf("seed bed type %q: %w", name, err)
			}
		}
		for _, rule := range seedHomeRules {
			if err := tx.Where(domain.HomeRule{Rule: rule}).FirstOrCreate(&domain.HomeRule{}).Error; err != nil {
				return fmt.Errorf("seed home rule %q: %w", rule, err)
			}
		}
		for _, d := range seedHomeDetails {
			row := domain.HomeDetail{}
			if err := tx.Where(domain.HomeDetail{Name: d.Name}).Attrs(domain.HomeDetail{Description: d.Description}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed home detail %q: %w", d.Name, err)
			}
		}
		for _, a := range seedAmenities {
			row := domain.Amenity{}
			attrs := domain.Amenity{Type: a.Type, Description: a.Description, IconURL: a.IconURL}
			if err := tx.Where(domain.Amenity{Name: a.Name}).Attrs(attrs).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed amenity %q: %w", a.Name, err)
			}
		}
		return nil
	})
}

// SeedAdmin makes sure a back-office account exists for email. The password
// is only set when the row is created.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	var admin domain.Admin
	return db.WithContext(ctx).
		Where(domain.Admin{Email: email}).
		Attrs(domain.Admin{Password: string(hash)}).
		FirstOrCreate(&admin).Error
}
