package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/services"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Embed chunks stored without a vector",
	Long: `Runs backfill passes over chunks of completed documents whose embedding is null.
Only one backfill runs at a time across instances.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

var (
	backfillBatch int
	backfillAll   bool
)

func init() {
	backfillCmd.Flags().IntVarP(&backfillBatch, "batch", "b", services.DefaultBackfillBatch, "Chunks per pass")
	backfillCmd.Flags().BoolVar(&backfillAll, "all", false, "Repeat passes until no pending chunk can be embedded")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), loadConfig())
	if err != nil {
		return err
	}
	defer a.close()

	if !a.services.Config().EmbeddingAvailable() {
		return domain.ErrEmbeddingProviderUnavailable
	}

	var total domain.BackfillResult
	for {
		result, err := a.ingestion.Backfill(cmd.Context(), backfillBatch)
		if result != nil {
			total.Scanned += result.Scanned
			total.Embedded += result.Embedded
			total.Failed += result.Failed
		}
		if errors.Is(err, domain.ErrLockNotAcquired) {
			return fmt.Errorf("another backfill is running: %w", err)
		}
		if errors.Is(err, domain.ErrLockLost) {
			return fmt.Errorf("backfill taken over by another instance after embedding %d chunks: %w", total.Embedded, err)
		}
		if err != nil {
			return err
		}
		log.Printf("Backfill pass: scanned=%d embedded=%d failed=%d", result.Scanned, result.Embedded, result.Failed)

		// stop when a pass made no progress or the batch was not full
		if !backfillAll || result.Embedded == 0 || result.Scanned < backfillBatch {
			break
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d embedded=%d failed=%d\n", total.Scanned, total.Embedded, total.Failed)
	return nil
}
