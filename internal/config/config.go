package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Auth
		Circulation
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Auth struct {
		TokenExpiry time.Duration
		BcryptCost  int
	}
	Circulation struct {
		LoanPeriodDays        int
		DailyFine             float64
		ReservationExpiryDays int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./biblioteca.db")
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Auth defaults
	v.SetDefault("auth_token_expiry", "1h") // bearer tokens live for 3600 seconds
	v.SetDefault("auth_bcrypt_cost", 12)

	// Circulation policy defaults
	v.SetDefault("loan_period_days", 14)
	v.SetDefault("loan_daily_fine", 2.0)
	v.SetDefault("reservation_expiry_days", 7)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Auth: Auth{
			TokenExpiry: v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
		},
		Circulation: Circulation{
			LoanPeriodDays:        v.GetInt("LOAN_PERIOD_DAYS"),
			DailyFine:             v.GetFloat64("LOAN_DAILY_FINE"),
			ReservationExpiryDays: v.GetInt("RESERVATION_EXPIRY_DAYS"),
		},
	}
}
