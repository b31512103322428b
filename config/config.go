package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	DefaultPort                    = "8080"
	DefaultAccessTokenExpiryMin    = 15
	DefaultTransferCeiling         = "1000000"
	DefaultTransferMaxRetries      = 3
	DefaultLoginMaxAttempts        = 3
	DefaultLockoutMinutes          = 30
	DefaultSuspiciousIPThreshold   = 5
	DefaultSuspiciousIPWindowHours = 24
)

type Config struct {
	Env               string
	Port              string
	DBURL             string
	AccessTokenSecret string
	AccessExpiryMin   int

	// Ledger engine settings.
	TransferCeiling    string
	TransferMaxRetries int

	// Lockout recorder settings.
	LoginMaxAttempts        int
	LockoutMinutes          int
	SuspiciousIPThreshold   int
	SuspiciousIPWindowHours int
}

// Load reads config/.env.<env> when present and lets process environment
// variables override it. Missing required keys are fatal at startup.
func Load() *Config {
	env := getEnv("ENV", "development")

	v := viper.New()
	v.SetConfigFile(filepath.Join("config", ".env."+envSuffix(env)))
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin)
	v.SetDefault("TRANSFER_CEILING", DefaultTransferCeiling)
	v.SetDefault("TRANSFER_MAX_RETRIES", DefaultTransferMaxRetries)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts)
	v.SetDefault("LOCKOUT_MINUTES", DefaultLockoutMinutes)
	v.SetDefault("SUSPICIOUS_IP_THRESHOLD", DefaultSuspiciousIPThreshold)
	v.SetDefault("SUSPICIOUS_IP_WINDOW_HOURS", DefaultSuspiciousIPWindowHours)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("Failed to read config file: %v", err)
		}
	}

	return &Config{
		Env:               env,
		Port:              v.GetString("PORT"),
		DBURL:             mustGet(v, "DB_URL"),
		AccessTokenSecret: mustGet(v, "ACCESS_TOKEN_SECRET"),
		AccessExpiryMin:   v.GetInt("ACCESS_TOKEN_EXPIRY"),

		TransferCeiling:    v.GetString("TRANSFER_CEILING"),
		TransferMaxRetries: v.GetInt("TRANSFER_MAX_RETRIES"),

		LoginMaxAttempts:        v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LockoutMinutes:          v.GetInt("LOCKOUT_MINUTES"),
		SuspiciousIPThreshold:   v.GetInt("SUSPICIOUS_IP_THRESHOLD"),
		SuspiciousIPWindowHours: v.GetInt("SUSPICIOUS_IP_WINDOW_HOURS"),
	}
}

func envSuffix(env string) string {
	switch env {
	case "development":
		return "dev"
	case "production":
		return "prod"
	default:
		return env
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustGet(v *viper.Viper, key string) string {
	value := v.GetString(key)
	if value == "" {
		log.Fatalf("Missing required config: %s", key)
	}
	return value
}
