package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/bookstore/pkg/authclient"
	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	middleware "github.com/Skotchmaster/bookstore/pkg/middleware/auth"
	storecfg "github.com/Skotchmaster/bookstore/services/store/internal/config"
	"github.com/Skotchmaster/bookstore/services/store/internal/payment"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/Skotchmaster/bookstore/services/store/internal/search"
	"gorm.io/gorm"
)

var errNoSearch = errors.New("ES_URL is not set")

// app holds the collaborators shared by all subcommands.
type app struct {
	cfg    storecfg.ServiceConfig
	logger *slog.Logger
	db     *gorm.DB
	store  *repo.GormRepo
	events events.Publisher
}

func newApp(ctx context.Context) (*app, error) {
	cfg := storecfg.Load()

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		store:  &repo.GormRepo{DB: db},
		events: events.Nop{},
	}
	if len(cfg.KafkaBrokers) > 0 {
		a.events = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is not set")
	}
	return a, nil
}

func (a *app) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Error("events_close_error", "error", err)
	}
	_ = pkgdb.Close(a.db)
}

func (a *app) searchIndex() (*search.Index, error) {
	if a.cfg.ESURL == "" {
		return nil, errNoSearch
	}
	es, err := search.NewClient(a.cfg.ESURL, a.cfg.ESUser, a.cfg.ESPassword)
	if err != nil {
		return nil, err
	}
	return search.NewIndex(es, a.cfg.ESIndex), nil
}

func (a *app) verifier() payment.Verifier {
	if a.cfg.PaymentVerifyURL == "" {
		a.logger.Warn("payment_verifier", "mode", "reference", "reason", "PAYMENT_VERIFY_URL is not set")
		return payment.ReferenceVerifier{}
	}
	return payment.NewHTTPVerifier(a.cfg.PaymentVerifyURL)
}

// refresher returns nil, not a typed nil, when no auth service is configured.
func (a *app) refresher() middleware.Refresher {
	if a.cfg.AuthHTTPURL == "" {
		return nil
	}
	return authclient.NewClient(a.cfg.AuthHTTPURL)
}

func (a *app) ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
