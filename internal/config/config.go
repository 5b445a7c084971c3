package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the runtime settings read from the environment (.env is
// loaded by the command before Load is called).
type Config struct {
	Port string

	DBDriver    string // "sqlite" or "postgres"
	DBPath      string // sqlite file
	DatabaseURL string // postgres DSN

	EnableAdmin  bool
	ImportFile   string
	PopularDays  int
	PopularLimit int
	TrackStock   bool
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "3000"),
		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:       getEnv("DB_PATH", "products.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		EnableAdmin:  getBool("POS_ADMIN", false),
		ImportFile:   getEnv("POS_IMPORT_FILE", "products.csv"),
		PopularDays:  getInt("POS_POPULAR_DAYS", 30),
		PopularLimit: getInt("POS_POPULAR_LIMIT", 6),
		TrackStock:   getBool("POS_TRACK_STOCK", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
