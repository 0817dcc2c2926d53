package cmd

import (
	"github.com/Skotchmaster/bookstore/services/store/internal/service"
	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the database",
	RunE:  runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	idx, err := a.searchIndex()
	if err != nil {
		return err
	}
	if err := idx.EnsureIndex(ctx); err != nil {
		return err
	}

	n, err := service.NewCatalogService(a.store, a.events, idx).Reindex(ctx, idx)
	if err != nil {
		return err
	}
	a.logger.Info("reindex_done", "books", n)
	return nil
}
