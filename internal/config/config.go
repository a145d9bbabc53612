package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	LogLevel            string
	Port                string
	DatabaseURL         string // postgres DSN, or sqlite://<path> for local runs
	RedisURL            string
	JWTSecret           string
	JWTTTL              time.Duration
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	SeedLookups         bool
	AdminEmail          string // seeded back-office account, skipped when empty
	AdminPassword       string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	AssetURLS3  string // public prefix prepended to stored keys, e.g. https://cdn.example.com/

	OTPProvider      string // "twilio" or "redis"
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioServiceSID string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_TTL", "720h")
	viper.SetDefault("OTP_PROVIDER", "redis")
	viper.SetDefault("S3_BUCKET", "roomz")

	ttl, err := time.ParseDuration(viper.GetString("JWT_TTL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		Port:                viper.GetString("PORT"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTTTL:              ttl,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		SeedLookups:         strings.EqualFold(viper.GetString("SEED_LOOKUPS"), "true"),
		AdminEmail:          viper.GetString("ADMIN_EMAIL"),
		AdminPassword:       viper.GetString("ADMIN_PASSWORD"),
		S3Endpoint:          viper.GetString("S3_ENDPOINT"),
		S3AccessKey:         viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         viper.GetString("S3_SECRET_KEY"),
		S3Bucket:            viper.GetString("S3_BUCKET"),
		S3UseSSL:            strings.EqualFold(viper.GetString("S3_USE_SSL"), "true"),
		AssetURLS3:          viper.GetString("ASSET_URL_S3"),
		OTPProvider:         strings.ToLower(viper.GetString("OTP_PROVIDER")),
		TwilioAccountSID:    viper.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     viper.GetString("TWILIO_AUTH_TOKEN"),
		TwilioServiceSID:    viper.GetString("TWILIO_SERVICE_SID"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
