package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration, loaded once in main.
type Config struct {
	Server Server
	LLM    LLM
	Spam   Spam
	SMTP   SMTP
}

type Server struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	SiteURL       string
}

type LLM struct {
	BaseURL     string
	Token       string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	ExecTimeout time.Duration
}

type Spam struct {
	Blocklist []string
}

type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// defaultBlocklist mirrors the word categories the moderation queue was tuned
// against. Each entry is a category: one hit per category, however many times
// the word repeats.
var defaultBlocklist = []string{
	"viagra", "casino", "poker", "loan", "mortgage", "credit",
	"click here", "buy now", "limited time", "act now",
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: Server{
			Port:          getEnv("PORT", "8080"),
			DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=tinta port=5432 sslmode=disable"),
			SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
			SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
		},
		LLM: LLM{
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.x.ai/v1"),
			Token:       os.Getenv("LLM_TOKEN"),
			Model:       getEnv("LLM_MODEL", "grok-4-1-fast-reasoning"),
			MaxRetries:  getIntEnv("LLM_MAX_RETRIES", 2),
			RetryDelay:  getDurationEnv("LLM_RETRY_DELAY", time.Second),
			ExecTimeout: getDurationEnv("LLM_EXEC_TIMEOUT", 55*time.Second),
		},
		Spam: Spam{
			Blocklist: getListEnv("SPAM_BLOCKLIST", defaultBlocklist),
		},
		SMTP: SMTP{
			Host: os.Getenv("SMTP_HOST"),
			Port: os.Getenv("SMTP_PORT"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
