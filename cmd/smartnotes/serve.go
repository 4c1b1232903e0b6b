package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/auth"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driving/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Starts the retrieval API. Configuration is read from the environment (see README).`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if servePort > 0 {
		cfg.Port = servePort
	}
	log.Printf("smartnotes %s starting", version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if getEnvBool("EMBEDDING_REQUIRED", false) && !a.services.Config().EmbeddingAvailable() {
		return fmt.Errorf("EMBEDDING_REQUIRED is set but no embedding provider is available")
	}

	var authOpts []auth.Option
	if cfg.JWTIssuer != "" {
		authOpts = append(authOpts, auth.WithIssuer(cfg.JWTIssuer))
	}

	deps := http.Deps{
		Retrieval:     a.retrieval,
		Ingestion:     a.ingestion,
		Documents:     a.documents,
		Conversations: a.conversations,
		Tokens:        auth.NewAdapter(cfg.JWTSecret, authOpts...),
		DB:            a.db,
	}
	if a.redis != nil {
		deps.Redis = redisPinger{client: a.redis}
	}

	serverCfg := http.DefaultConfig()
	serverCfg.Port = cfg.Port
	serverCfg.Version = version
	serverCfg.AdminToken = cfg.AdminToken
	serverCfg.AllowedOrigins = cfg.AllowedOrigins

	log.Printf("API server starting on :%d", cfg.Port)
	return http.NewServer(serverCfg, deps).Start()
}
