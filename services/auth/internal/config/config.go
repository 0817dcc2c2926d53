package config

import (
	"github.com/Skotchmaster/bookstore/pkg/config"
	"github.com/Skotchmaster/bookstore/pkg/db"
)

type ServiceConfig struct {
	config.Config

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "auth"
	}

	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverMySQL, db.DriverSQLite)
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return ServiceConfig{
		Config:        cfg,
		AdminUsername: config.EnvDefault("ADMIN_USERNAME", ""),
		AdminEmail:    config.EnvDefault("ADMIN_EMAIL", ""),
		AdminPassword: config.EnvDefault("ADMIN_PASSWORD", ""),
	}
}
