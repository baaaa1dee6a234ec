package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/propmatch/internal/api"
	"github.com/wonny/propmatch/internal/api/handlers"
	"github.com/wonny/propmatch/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

This command:
- Starts the HTTP API server
- Serves recommendation bundles per investor
- Triggers signal matching runs per org

Endpoints:
  GET  /health                                    - Health check
  GET  /api/investors/{id}/recommendations        - Recommendation bundle
  POST /api/investors/{id}/recommendations/preview - Bundle with overrides
  POST /api/orgs/{id}/signals/match               - Signal match run

Example:
  go run ./cmd/propmatch api
  go run ./cmd/propmatch api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== PropMatch API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Engine and matcher on top of the pgx repositories
	engine := buildEngine(d)
	matcher := buildMatcher(d)

	// Per-org rate limiting for match runs, when redis is up
	var limiter handlers.MatchLimiter
	if d.rdb != nil && d.rdb.Enabled() {
		limiter = redis.NewRateLimiter(d.rdb, "propmatch")
	}

	recHandler := handlers.NewRecommendationHandler(engine, d.log)
	sigHandler := handlers.NewSignalHandler(matcher, limiter, d.cfg.Engine.MatchRateLimit, d.cfg.Engine.MatchRateWindow, d.log)

	router := api.NewRouter(recHandler, sigHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	d.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/investors/{id}/recommendations")
	fmt.Println("  POST /api/investors/{id}/recommendations/preview")
	fmt.Println("  POST /api/orgs/{id}/signals/match")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
