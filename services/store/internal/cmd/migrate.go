package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables, Kafka topics and the search index",
	Long: `migrate creates the store tables. When KAFKA_BROKERS is set it also
creates the event topics, and when ES_URL is set it creates the book index.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.logger.Info("tables_migrated")

	if len(a.cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(ctx, a.cfg.KafkaBrokers[0], events.Topics...); err != nil {
			return fmt.Errorf("kafka topics: %w", err)
		}
		a.logger.Info("topics_ensured", "topics", events.Topics)
	}

	if a.cfg.ESURL != "" {
		idx, err := a.searchIndex()
		if err != nil {
			return err
		}
		if err := idx.EnsureIndex(ctx); err != nil {
			return err
		}
		a.logger.Info("index_ensured", "index", a.cfg.ESIndex)
	}
	return nil
}
