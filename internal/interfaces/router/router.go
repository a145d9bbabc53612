package router

import (
	"context"
	"errors"
	"fmt"

	adminsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/admin"
	authsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/auth"
	catalogsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/catalog"
	listsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/listings"
	propsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/properties"
	uploadsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	usersvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/user"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/config"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/database"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/storage"
	adminhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/admin"
	authhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/auth"
	cataloghandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/catalog"
	healthhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/health"
	listhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/listings"
	travelhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/travelling"
	uploadhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/uploads"
	userhandler "github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/handlers/user"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by every route.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Rdb    *redis.Client // optional; disables request stats when nil
	OTP    otp.Provider
	Store  storage.ObjectStore
	Tokens *token.Issuer
}

// CreateApp opens the database and Redis from cfg, prepares the schema and
// returns the app with both connections.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, errors.New("DATABASE_URL is required")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	ctx := context.Background()
	if cfg.SeedLookups {
		if err := database.SeedLookups(ctx, db); err != nil {
			return nil, nil, nil, fmt.Errorf("seed lookups: %w", err)
		}
	}
	if err := database.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, nil, nil, fmt.Errorf("seed admin: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
	}

	provider, err := otpProvider(cfg, rdb)
	if err != nil {
		return nil, nil, nil, err
	}

	var store storage.ObjectStore = storage.NoopStore{}
	if cfg.S3Endpoint != "" {
		s3, err := storage.NewS3Store(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, nil, nil, err
		}
		store = s3
	} else {
		log.Warn().Msg("S3_ENDPOINT not set, uploads are disabled")
	}

	tokens, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, nil, nil, err
	}

	app := New(Deps{Config: cfg, DB: db, Rdb: rdb, OTP: provider, Store: store, Tokens: tokens})
	return app, db, rdb, nil
}

func otpProvider(cfg *config.Config, rdb *redis.Client) (otp.Provider, error) {
	switch cfg.OTPProvider {
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioServiceSID == "" {
			return nil, errors.New("twilio OTP provider needs TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_SERVICE_SID")
		}
		return &otp.TwilioVerify{AccountSID: cfg.TwilioAccountSID, AuthToken: cfg.TwilioAuthToken, ServiceSID: cfg.TwilioServiceSID}, nil
	case "", "redis":
		if rdb == nil {
			return nil, errors.New("redis OTP provider needs REDIS_URL")
		}
		// no SMS gateway behind this store; codes only reach a dev inbox
		if !cfg.IsDevelopment() {
			return nil, errors.New("redis OTP provider is only available with APP_ENV=development; set OTP_PROVIDER=twilio")
		}
		store := otp.NewRedisStore(rdb)
		store.Deliver = store.DevInbox
		return store, nil
	}
	return nil, fmt.Errorf("unknown OTP_PROVIDER %q", cfg.OTPProvider)
}

// New registers every route on a fresh app.
func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               4 * uploadsvc.MaxFileSize,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.Locale())

	hh := &healthhandler.Handlers{Rdb: d.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	if sqlDB, err := d.DB.DB(); err == nil {
		hh.DB = sqlDB
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Post("/health/reset", hh.Reset)

	uploads := uploadsvc.NewService(d.Store, cfg.AssetURLS3)
	properties := propsvc.NewService(d.DB, cfg.AssetURLS3)

	// Auth
	ah := &authhandler.Handlers{Service: authsvc.NewService(d.DB, d.OTP, d.Tokens, cfg.AssetURLS3)}
	ag := app.Group("/auth")
	ag.Post("/check-account", ah.CheckAccount)
	ag.Post("/resend-otp", ah.ResendOTP)
	ag.Post("/verify-otp", ah.VerifyOTP)
	ag.Post("/register", ah.Register)
	ag.Post("/login", ah.Login)
	ag.Post("/social-login", ah.SocialLogin)

	// User
	ug := app.Group("/user", middleware.RequireUser(d.Tokens), middleware.UserActive(d.DB))
	uh := &userhandler.Handlers{Service: usersvc.NewService(d.DB, uploads, d.OTP, cfg.AssetURLS3)}
	ug.Get("/my-profile", uh.MyProfile)
	ug.Post("/profile-photo", uh.ProfilePhoto)
	ug.Put("/phone-number", uh.PhoneNumber)

	// Hosting
	hg := ug.Group("/hosting")
	ch := &cataloghandler.Handlers{Service: catalogsvc.NewService(d.DB, cfg.AssetURLS3)}
	hg.Get("/bed-types", ch.BedTypes())
	hg.Get("/property-types", ch.PropertyTypes())
	hg.Get("/amenities", ch.Amenities())
	hg.Get("/home-details", ch.HomeDetails())
	hg.Get("/home-rules", ch.HomeRules())

	uph := &uploadhandler.Handlers{Service: uploads}
	hg.Post("/upload-images", uph.UploadImages)
	hg.Post("/remove-images", uph.RemoveImages)

	lh := &listhandler.Handlers{Service: listsvc.NewService(d.DB, cfg.AssetURLS3), Properties: properties}
	hg.Get("/listings", lh.MyListings)
	lp := hg.Group("/list-property")
	lp.Post("/type/:id?", lh.SetType)
	gate := middleware.PropertyStatus(d.DB)
	lp.Put("/beds/:id", gate, lh.SetBeds())
	lp.Put("/address/:id", gate, lh.SetAddress())
	lp.Put("/location/:id", gate, lh.SetLocation())
	lp.Put("/amenities/:id", gate, lh.SetAmenities())
	lp.Put("/guest-requirements/:id", gate, lh.SetGuestRequirements())
	lp.Put("/house-rules/:id", gate, lh.SetHouseRules())
	lp.Put("/property-details/:id", gate, lh.SetPropertyDetails())
	lp.Put("/description/:id", gate, lh.SetDescription())
	lp.Put("/name/:id", gate, lh.SetName())
	lp.Put("/availability/:id", gate, lh.SetAvailability())
	lp.Put("/phone-number/:id", gate, lh.SetSecondaryPhone())
	lp.Put("/pricing/:id", gate, lh.SetPricing())
	lp.Put("/laws-and-calender/:id", gate, lh.SetLawsAndCalendar())
	lp.Put("/questions/:id", gate, lh.SetQuestions())
	lp.Put("/discounts/:id", gate, lh.SetDiscounts())
	lp.Put("/photos/:id", gate, lh.SetPhotos())
	lp.Get("/preview/:id", gate, lh.Preview)
	lp.Get("/publish/:id", gate, lh.Publish)

	// Travelling
	th := &travelhandler.Handlers{Service: properties}
	tg := ug.Group("/travelling")
	tg.Get("/search-property", th.SearchProperty)
	tg.Get("/property-details/:id", th.PropertyDetails)

	// Admin
	adh := &adminhandler.Handlers{Service: adminsvc.NewService(d.DB, d.Tokens, cfg.AssetURLS3), Properties: properties}
	app.Post("/admin/login", adh.Login)
	adg := app.Group("/admin", middleware.RequireAdmin(d.Tokens))
	adg.Post("/change-password", adh.ChangePassword)
	adg.Get("/users", adh.Users)
	adg.Get("/users-list", adh.Users)
	adg.Delete("/delete-user/:userId", adh.DeleteUser)
	adg.Put("/toggle-status/:userId", adh.ToggleStatus)
	adg.Get("/property-list", adh.PropertyList)
	adg.Delete("/delete-property/:id", adh.DeleteProperty)
	adg.Put("/block-property/:id", adh.BlockProperty)
	adg.Get("/property-details/:id", adh.PropertyDetails)

	return app
}
