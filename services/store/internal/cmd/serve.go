package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	loggingmw "github.com/Skotchmaster/bookstore/pkg/middleware/logging"
	"github.com/Skotchmaster/bookstore/services/store/internal/httpserver"
	"github.com/Skotchmaster/bookstore/services/store/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	initCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	a, err := newApp(initCtx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Migrate(initCtx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var searcher service.Searcher
	if idx, err := a.searchIndex(); err != nil {
		a.logger.Warn("search_disabled", "reason", "falling back to database search", "error", err)
	} else {
		searcher = idx
	}

	catalog := service.NewCatalogService(a.store, a.events, searcher)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(a.logger))

	httpserver.Register(e, &httpserver.Deps{
		BookHandler: &httpserver.BookHTTP{
			Svc:     catalog,
			Reviews: service.NewReviewService(a.store, a.events),
		},
		OrderHandler:    &httpserver.OrderHTTP{Svc: service.NewOrderService(a.store, a.events, a.verifier())},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Store: a.store}},
		AdminHandler: &httpserver.AdminHTTP{
			Reports: &service.ReportService{Store: a.store},
			Restock: service.NewRestockService(a.store, a.events),
		},
		JWTSecret:  a.cfg.JWTAccessSecret,
		AuthClient: a.refresher(),
		Ready: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return a.ping(ctx)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("store listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	a.logger.Info("store stopped")
	return nil
}
