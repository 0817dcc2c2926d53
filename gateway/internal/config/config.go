package config

import (
	"os"

	"github.com/Skotchmaster/bookstore/pkg/config"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	AuthURL  string
	StoreURL string

	// AllowedOrigins enables CORS with credentials for the SPA.
	AllowedOrigins []string
	SecureCookies  bool
}

func Load() Config {
	cfg := Config{
		ListenAddr:     config.EnvDefault("GATEWAY_ADDR", ":8080"),
		LogLevel:       config.EnvDefault("LOG_LEVEL", "info"),
		AuthURL:        os.Getenv("AUTH_URL"),
		StoreURL:       os.Getenv("STORE_URL"),
		AllowedOrigins: config.CSV(os.Getenv("CORS_ORIGINS")),
		SecureCookies:  os.Getenv("COOKIE_SECURE") == "true",
	}

	config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	config.MustNonEmpty(cfg.StoreURL, "STORE_URL")
	return cfg
}
