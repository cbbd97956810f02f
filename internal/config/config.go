package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the API.
type Config struct {
	AppMode       string
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CORSOrigins   []string
	CookieSecure  bool
	CookieDomain  string
}

// Load reads configuration from a .env file and the environment.
func Load() (*Config, error) {
	// Missing .env is fine in production, environment variables win anyway.
	_ = godotenv.Load()

	mode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if mode != "dev" && mode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: %q (must be 'dev' or 'prod')", mode)
	}

	cfg := &Config{
		AppMode:       mode,
		Port:          getEnv("API_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "hospital"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CookieSecure:  mode == "prod",
		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}
	return cfg, nil
}

// IsDev reports whether the API runs in development mode. Error detail is only
// echoed to clients in this mode.
func (c *Config) IsDev() bool { return c.AppMode == "dev" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
