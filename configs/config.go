package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings is read once at startup and passed down explicitly.
type Settings struct {
	Port          string
	DBDriver      string
	DatabaseURL   string
	SeedData      bool
	AppEnv        string
	InventoryCron string
	CORSOrigins   string
}

func Load() Settings {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return Settings{
		Port:          Config("PORT", "8080"),
		DBDriver:      Config("DB_DRIVER", "postgres"),
		DatabaseURL:   Config("DATABASE_URL", ""),
		SeedData:      boolConfig("SEED_DATA", false),
		AppEnv:        Config("APP_ENV", "production"),
		InventoryCron: Config("INVENTORY_CRON", "@hourly"),
		CORSOrigins:   Config("CORS_ORIGINS", "*"),
	}
}

func Config(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func boolConfig(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func (s Settings) IsDevelopment() bool {
	return s.AppEnv == "development"
}
