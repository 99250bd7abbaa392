/*
main.go - Application entry point

PURPOSE:
  Starts the inventory engine server. Handles configuration, dependency
  wiring, and graceful shutdown.

COMMANDS:
  serve    Run the HTTP server (default)
  seed     Install the default chart of accounts and exit

CONFIGURATION:
  Flags override environment, environment overrides the YAML file.
  See config/config.go for the full surface.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  server serve --db ./data/inventory.db

  # Run with in-memory database on another port
  server serve --db :memory: --port 3000

  # Install the default chart
  server seed --db ./data/inventory.db

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sjhardware/inventory-engine/api"
	"github.com/sjhardware/inventory-engine/config"
	"github.com/sjhardware/inventory-engine/store/sqlite"
)

var (
	cfgFile string
	dbPath  string
	port    int
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Inventory and double-entry accounting backend",
	Long: `The inventory engine tracks stock, sales, purchases and expenses,
and posts every business event to an append-only general ledger with
monotonic per-prefix transaction numbering.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debug || os.Getenv("DEBUG") == "true" {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default chart of accounts",
	RunE:  runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	serveCmd.Flags().IntVar(&port, "port", 0, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "db", cfg.DB.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	created, err := store.SeedDefaultChart(context.Background())
	if err != nil {
		return fmt.Errorf("failed to seed chart: %w", err)
	}

	slog.Info("chart seeded", "accounts_created", created, "db", cfg.DB.Path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
