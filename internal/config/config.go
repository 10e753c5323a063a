package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultRootPageID is the Notion page walked when /fetch-topics gets no pageId.
const DefaultRootPageID = "15c4358dfdad8070bf92c4dc2842ce3e"

type Config struct {
	Port string

	// Auth for inbound requests. Empty disables the check.
	APIKey string

	// Notion document store
	NotionToken      string
	NotionBaseURL    string
	NotionVersion    string
	NotionRootPageID string
	NotionMaxDepth   int
	NotionMaxNodes   int
	NotionTimeout    time.Duration

	// Completion endpoint
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	CompletionMaxTokens   int
	CompletionTemperature float64

	// Request limits
	MaxBodyBytes int64

	LLMStatsWindow time.Duration
	LogLevel       slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		APIKey: os.Getenv("NEWSDESK_API_KEY"),

		NotionToken:      os.Getenv("NOTION_API_TOKEN"),
		NotionBaseURL:    strings.TrimRight(envOr("NOTION_BASE_URL", "https://api.notion.com/v1"), "/"),
		NotionVersion:    envOr("NOTION_VERSION", "2022-06-28"),
		NotionRootPageID: envOr("NOTION_ROOT_PAGE_ID", DefaultRootPageID),
		NotionMaxDepth:   envInt("NOTION_MAX_DEPTH", 3),
		NotionMaxNodes:   envInt("NOTION_MAX_NODES", 256),
		NotionTimeout:    envDuration("NOTION_TIMEOUT", 30*time.Second),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-4"),
		OpenAITimeout: envDuration("OPENAI_TIMEOUT", 120*time.Second),

		CompletionMaxTokens:   envInt("COMPLETION_MAX_TOKENS", 500),
		CompletionTemperature: envFloat("COMPLETION_TEMPERATURE", 0.7),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20),

		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", time.Hour),
		LogLevel:       envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	// Zero is a valid depth (root page only); only negatives fall back.
	if cfg.NotionMaxDepth < 0 {
		cfg.NotionMaxDepth = 3
	}
	if cfg.NotionMaxNodes < 0 {
		cfg.NotionMaxNodes = 256
	}
	if cfg.NotionTimeout <= 0 {
		cfg.NotionTimeout = 30 * time.Second
	}
	if cfg.OpenAITimeout <= 0 {
		cfg.OpenAITimeout = 120 * time.Second
	}
	if cfg.CompletionMaxTokens <= 0 {
		cfg.CompletionMaxTokens = 500
	}
	if cfg.CompletionTemperature < 0 || cfg.CompletionTemperature > 2 {
		cfg.CompletionTemperature = 0.7
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.NotionToken == "" {
		return fmt.Errorf("NOTION_API_TOKEN is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.NotionRootPageID == "" {
		return fmt.Errorf("NOTION_ROOT_PAGE_ID must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
