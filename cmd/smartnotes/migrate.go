package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Applies the idempotent schema (pgvector extension, tables, HNSW indexes) for EMBEDDING_DIMENSIONS.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migratePrint bool

func init() {
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the rendered schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := cfg.validate(); err != nil {
		return err
	}

	if migratePrint {
		schema, err := postgres.RenderSchema(cfg.Embedding.Dimensions)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), schema)
		return nil
	}

	db, err := postgres.Connect(cmd.Context(), cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.InitSchema(cmd.Context(), cfg.Embedding.Dimensions); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	log.Printf("Schema applied (dimensions=%d)", cfg.Embedding.Dimensions)
	return nil
}
