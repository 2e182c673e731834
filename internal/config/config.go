package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// LLM provider selection
	LLMProvider string
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string

	// External device verification service
	DeviceCheckURL string

	// Reference datasets directory
	DataDir string

	// CORS
	AllowedOrigins []string
	DefaultOrigin  string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		Env:            getEnvDefault("ENV", "development"),
		LLMProvider:    getEnvDefault("LLM_PROVIDER", "openai"),
		LLMAPIKey:      os.Getenv("LLM_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		DeviceCheckURL: getEnvDefault("DEVICE_CHECK_URL", "https://verify.repairhub.io/v1/device-check"),
		DataDir:        getEnvDefault("DATA_DIR", "data"),
		AllowedOrigins: getEnvListDefault("ALLOWED_ORIGINS", []string{"https://app.repairhub.io", "http://localhost:5173"}),
		DefaultOrigin:  getEnvDefault("DEFAULT_ORIGIN", "https://app.repairhub.io"),
	}
	if cfg.LLMAPIKey == "" {
		slog.Warn("LLM_API_KEY is not set; chat requests will fail until provided")
	}
	return cfg
}

// IsProduction gates debug details in error responses.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
