package main

// @title           SmartNotes Retrieval API
// @version         1.0
// @description     Document ingestion and semantic retrieval for SmartNotes study material.

// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by the platform auth service. Format: "Bearer {token}"

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

// envFile is the optional dotenv file loaded before any command runs
var envFile string

var rootCmd = &cobra.Command{
	Use:           "smartnotes",
	Short:         "SmartNotes document retrieval core",
	Long:          `Ingests extracted document text into pgvector and answers owner-scoped semantic retrieval queries.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file to load")
}

// loadEnv loads a dotenv file without overriding variables already set.
// A missing default file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("smartnotes: %v", err)
	}
}
