// Package bootstrap assembles the app outside internal/ so the serverless
// handler in api/ can reach it.
package bootstrap

import (
	"os"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/config"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogging sets the global logger: JSON in production, console
// output elsewhere. LOG_LEVEL overrides the level.
func ConfigureLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// New loads config and builds the app.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ConfigureLogging(cfg)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
