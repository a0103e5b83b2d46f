// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Variant names for the deployed bot.
const (
	VariantProduct    = "product"
	VariantRestaurant = "restaurant"
)

// Config holds all application configuration.
type Config struct {
	Port           string // HTTP API port
	VoicePort      string // voice application port
	AllowedOrigins []string
	BotVariant     string

	CatalogPath string
	BookingsDB  string

	Chat     ChatConfig
	Fonoster FonosterConfig

	WebChatTTL time.Duration // idle web chat transcripts are swept after this
}

// ChatConfig holds settings for the chat-completion service.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// FonosterConfig holds credentials for the telephony platform's call API.
type FonosterConfig struct {
	AccessKeyID string
	APIKey      string
	APISecret   string
	AppRef      string
	BaseURL     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "3001"),
		VoicePort:      getEnv("VOICE_PORT", "50061"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		BotVariant:     getEnv("BOT_VARIANT", VariantProduct),
		CatalogPath:    getEnv("CATALOG_PATH", "./data/products_merged.csv"),
		BookingsDB:     getEnv("BOOKINGS_DB_PATH", "./data/bookings.db"),
		Chat: ChatConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("CHAT_MODEL", "gpt-4"),
			MaxTokens:   getEnvInt("CHAT_MAX_TOKENS", 150),
			Temperature: 0.7,
		},
		Fonoster: FonosterConfig{
			AccessKeyID: getEnv("FONOSTER_ACCESS_KEY_ID", ""),
			APIKey:      getEnv("FONOSTER_API_KEY", ""),
			APISecret:   getEnv("FONOSTER_API_SECRET", ""),
			AppRef:      getEnv("FONOSTER_APP_REF", ""),
			BaseURL:     getEnv("FONOSTER_BASE_URL", "https://api.fonoster.com/v1"),
		},
		WebChatTTL: getEnvDuration("WEB_CHAT_TTL", 30*time.Minute),
	}

	// A Cerebras key routes completions through their OpenAI-compatible
	// endpoint, matching the production deployment.
	if key := os.Getenv("CEREBRAS_API_KEY"); key != "" {
		cfg.Chat.APIKey = key
		cfg.Chat.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.cerebras.ai/v1")
		cfg.Chat.Model = getEnv("CHAT_MODEL", "qwen-3-235b-a22b-instruct-2507")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.VoicePort == "" {
		return fmt.Errorf("VOICE_PORT cannot be empty")
	}
	if c.BotVariant != VariantProduct && c.BotVariant != VariantRestaurant {
		return fmt.Errorf("BOT_VARIANT must be %q or %q, got %q", VariantProduct, VariantRestaurant, c.BotVariant)
	}
	if c.Chat.MaxTokens <= 0 {
		return fmt.Errorf("CHAT_MAX_TOKENS must be > 0")
	}
	if c.WebChatTTL <= 0 {
		return fmt.Errorf("WEB_CHAT_TTL must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
