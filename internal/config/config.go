package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string
	DatabaseDSN    string
	RedisURL       string
	NATSURL        string
	JWTSecret      string
	ActivityMaxAge time.Duration
}

// Load reads configuration from the environment, optionally seeded from a
// .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           ":" + getEnv("PORT", "8080"),
		DatabaseDSN:    buildDSN(),
		RedisURL:       os.Getenv("REDIS_URL"),
		NATSURL:        os.Getenv("NATS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ActivityMaxAge: getDuration("ACTIVITY_MAX_AGE", 30*24*time.Hour),
	}
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "orgboard") +
		" password=" + getEnv("DB_PASSWORD", "orgboard") +
		" dbname=" + getEnv("DB_NAME", "orgboard") +
		" sslmode=" + getEnv("DB_SSLMODE", "disable")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
