package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

type Config struct {
	// HTTP settings
	Port string

	// Source settings
	SourcesConfigPath string
	FetchTimeout      time.Duration

	// Aggregation settings
	RecencyWindow time.Duration
	MaxArticles   int

	// Translation settings
	TargetLanguage      string
	OpenAIAPIKey        string
	GeminiAPIKey        string
	TranslationTTL      time.Duration
	TranslationMaxItems int
	TranslationBudget   int // provider requests per day (0 = unlimited)
	TranslationRate     float64

	// Feed cache settings
	FeedCacheTTL    time.Duration
	RefreshSchedule string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Port:                "8080",
		SourcesConfigPath:   "configs/sources.yaml",
		FetchTimeout:        20 * time.Second,
		RecencyWindow:       48 * time.Hour,
		MaxArticles:         30,
		TargetLanguage:      "sw",
		TranslationTTL:      30 * time.Minute,
		TranslationMaxItems: 2000,
		TranslationBudget:   500,
		TranslationRate:     1,
		FeedCacheTTL:        10 * time.Minute,
		RefreshSchedule:     "@every 10m",
	}

	// Load from environment
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.TargetLanguage = getEnvOrDefault("TARGET_LANGUAGE", cfg.TargetLanguage)
	cfg.RefreshSchedule = getEnvOrDefault("REFRESH_SCHEDULE", cfg.RefreshSchedule)

	if v := getEnvIntOrDefault("FETCH_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.FetchTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("RECENCY_WINDOW_HOURS", 0); v > 0 {
		cfg.RecencyWindow = time.Duration(v) * time.Hour
	}
	if v := getEnvIntOrDefault("MAX_ARTICLES", 0); v > 0 {
		cfg.MaxArticles = v
	}
	if v := getEnvIntOrDefault("TRANSLATION_CACHE_TTL_MINUTES", 0); v > 0 {
		cfg.TranslationTTL = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("TRANSLATION_CACHE_MAX_ITEMS", 0); v > 0 {
		cfg.TranslationMaxItems = v
	}
	if v := os.Getenv("TRANSLATION_DAILY_BUDGET"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.TranslationBudget = val
		}
	}
	if v := os.Getenv("TRANSLATION_RATE_PER_SECOND"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
			cfg.TranslationRate = val
		}
	}
	if v := getEnvIntOrDefault("FEED_CACHE_TTL_MINUTES", 0); v > 0 {
		cfg.FeedCacheTTL = time.Duration(v) * time.Minute
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := language.Parse(c.TargetLanguage); err != nil {
		return fmt.Errorf("TARGET_LANGUAGE %q is not a valid BCP 47 tag: %w", c.TargetLanguage, err)
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("MAX_ARTICLES must be positive")
	}
	return nil
}
