package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// BaseURL is the public scheme+host used to assemble short URLs.
	// It is passed explicitly into serialization so the core never reads
	// it from ambient request state.
	BaseURL string `mapstructure:"BASE_URL"`

	// Mapping keys
	KeyLength        int `mapstructure:"KEY_LENGTH"`
	GuestExpiryHours int `mapstructure:"GUEST_EXPIRY_HOURS"`

	// Cleanup job (cron expression)
	CleanupSchedule string `mapstructure:"CLEANUP_SCHEDULE"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// SMTP (expiry notifications)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("KEY_LENGTH", 10)
	viper.SetDefault("GUEST_EXPIRY_HOURS", 24)
	viper.SetDefault("CLEANUP_SCHEDULE", "@hourly")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", "noreply@urlcut.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
