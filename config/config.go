package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LLM    LLMConfig
	Fetch  FetchConfig
	Output OutputConfig
	Log    LogConfig
}

// LLMConfig controls the normalizer's completion endpoint.
type LLMConfig struct {
	// APIKey authenticates against the completion service. Required.
	APIKey string

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string

	// Model is the completion model identifier.
	Model string

	// Temperature is the fixed decoding temperature.
	Temperature float64

	// MaxTokens is the fixed output token budget.
	MaxTokens int

	// Timeout bounds the whole completion request.
	Timeout time.Duration
}

// FetchConfig controls the profile page fetcher.
type FetchConfig struct {
	// URLTemplates are tried in order; each must contain one %s for the
	// username. The first 200 response wins.
	URLTemplates []string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout applies per request, not across the whole candidate list.
	Timeout time.Duration

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64

	// RequestsPerSecond paces requests across the candidate URLs.
	RequestsPerSecond float64
}

// OutputConfig controls result persistence.
type OutputConfig struct {
	// Path is the output file, fully overwritten on every successful run.
	Path string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:      envOr("GFG_LLM_API_KEY", os.Getenv("HUGGINGFACEHUB_API_TOKEN")),
			BaseURL:     envOr("GFG_LLM_BASE_URL", "https://router.huggingface.co/v1"),
			Model:       envOr("GFG_LLM_MODEL", "tiiuae/falcon-7b-instruct"),
			Temperature: envFloatOr("GFG_LLM_TEMPERATURE", 0.2),
			MaxTokens:   envIntOr("GFG_LLM_MAX_TOKENS", 1024),
			Timeout:     envDurationOr("GFG_LLM_TIMEOUT", 60*time.Second),
		},
		Fetch: FetchConfig{
			URLTemplates: envSliceOr("GFG_PROFILE_URLS", []string{
				"https://auth.geeksforgeeks.org/user/%s",
				"https://www.geeksforgeeks.org/user/%s/",
			}),
			UserAgent:         envOr("GFG_USER_AGENT", "Mozilla/5.0 (compatible; gfg-falcon/1.0)"),
			Timeout:           envDurationOr("GFG_FETCH_TIMEOUT", 10*time.Second),
			MaxBodyBytes:      int64(envIntOr("GFG_FETCH_MAX_BODY", 2*1024*1024)),
			RequestsPerSecond: envFloatOr("GFG_FETCH_RPS", 1.0),
		},
		Output: OutputConfig{
			Path: envOr("GFG_OUTPUT_PATH", "output.json"),
		},
		Log: LogConfig{
			Level:  envOr("GFG_LOG_LEVEL", "info"),
			Format: envOr("GFG_LOG_FORMAT", "text"),
		},
	}
}

// Validate fails fast on configuration that would doom the run.
// The credential check happens before any network or file work.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("GFG_LLM_API_KEY (or HUGGINGFACEHUB_API_TOKEN) is not set")
	}
	if len(c.Fetch.URLTemplates) == 0 {
		return errors.New("GFG_PROFILE_URLS must list at least one URL template")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
