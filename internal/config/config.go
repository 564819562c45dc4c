package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration

	// MediaRoot is the directory uploaded recipe images are written under;
	// MediaBaseURL is the public prefix they are served from.
	MediaRoot    string
	MediaBaseURL string

	CORSAllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		DatabaseDSN:        getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/recipebox?parseTime=true"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:          24 * time.Hour,
		MediaRoot:          getEnv("MEDIA_ROOT", "media"),
		MediaBaseURL:       getEnv("MEDIA_BASE_URL", "/media"),
		CORSAllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitEnv(key, fallback string) []string {
	parts := strings.Split(getEnv(key, fallback), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
