package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Media store (MongoDB GridFS)
	MongoURI string
	MongoDB  string

	// Optional browse-page cache; caching is disabled when empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// The single admin identity. No compiled-in fallback: both values
	// must be supplied, the password as a bcrypt hash.
	AdminUsername     string
	AdminPasswordHash string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "tnplots"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("config: invalid REDIS_DB %q", db)
		}
		cfg.RedisDB = n
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("config: ADMIN_USERNAME and ADMIN_PASSWORD_HASH are required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
