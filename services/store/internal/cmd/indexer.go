package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/bookstore/services/store/internal/search"
	"github.com/spf13/cobra"
)

var indexerCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Consume book events into the search index",
	RunE:  runIndexer,
}

func init() {
	rootCmd.AddCommand(indexerCmd)
}

func runIndexer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if len(a.cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is not set")
	}
	idx, err := a.searchIndex()
	if err != nil {
		return err
	}
	if err := idx.EnsureIndex(ctx); err != nil {
		return err
	}

	reader := search.NewBookReader(a.cfg.KafkaBrokers, a.cfg.IndexerGroupID)
	defer reader.Close()

	a.logger.Info("indexer started", "group", a.cfg.IndexerGroupID, "index", a.cfg.ESIndex)
	ix := &search.Indexer{Reader: reader, Index: idx, Log: a.logger}
	return ix.Run(ctx)
}
