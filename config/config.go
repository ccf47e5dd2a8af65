package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration values loaded from the environment. Load must be called
// once at startup before any of these are read.
var (
	Port string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr string

	JWTSecret      string
	AllowedOrigins string

	// UpcomingLead controls how far ahead of its start date an upcoming
	// challenge shows up in the active listing.
	UpcomingLead time.Duration

	// PhaseTick is the interval between background phase transition runs.
	PhaseTick time.Duration
)

// Load reads the .env file if present and populates the configuration.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	Port = getEnv("PORT", "8080")

	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "postgres")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "")
	PostgresDB = getEnv("POSTGRES_DB", "aperture")

	RedisAddr = getEnv("REDIS_ADDR", "")

	JWTSecret = getEnv("JWT_SECRET", "")
	if JWTSecret == "" {
		log.Println("JWT_SECRET is not set, authenticated routes will reject all tokens")
	}
	AllowedOrigins = getEnv("ALLOWED_ORIGINS", "*")

	UpcomingLead = time.Duration(getEnvInt("UPCOMING_LEAD_DAYS", 14)) * 24 * time.Hour
	PhaseTick = time.Duration(getEnvInt("PHASE_TICK_SECONDS", 60)) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
