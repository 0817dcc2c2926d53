package config

import (
	"github.com/Skotchmaster/bookstore/pkg/config"
	"github.com/Skotchmaster/bookstore/pkg/db"
)

type ServiceConfig struct {
	config.Config

	IndexerGroupID string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "store"
	}

	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPostgres, db.DriverMySQL, db.DriverSQLite)
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return ServiceConfig{
		Config:         cfg,
		IndexerGroupID: config.EnvDefault("KAFKA_GROUP_ID", "store-indexer"),
	}
}
