package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings for the feed server. Everything comes
// from environment variables with sensible local-dev defaults.
type Config struct {
	Addr       string
	DBPath     string
	SessionTTL time.Duration
}

func Load() *Config {
	cfg := &Config{}

	port := getEnv("PORT", "8080")
	cfg.Addr = ":" + port

	cfg.DBPath = getEnv("FEED_DB_PATH", "./data/feed.db")

	hours, err := strconv.Atoi(getEnv("FEED_SESSION_HOURS", "24"))
	if err != nil {
		log.Printf("invalid FEED_SESSION_HOURS, using default 24: %v", err)
		hours = 24
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
