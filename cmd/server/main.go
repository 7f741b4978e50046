/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the surcharge engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML configuration (optional; defaults apply without a file)
  3. Initialize SQLite store and holiday calendars
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to YAML configuration (optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with defaults
  ./server

  # Run with a config file and file database
  ./server -config=./surcharge.yaml -db=./data/surcharge.db

SEE ALSO:
  - config/: YAML configuration schema
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campus/surcharge-engine/api"
	"github.com/campus/surcharge-engine/config"
	"github.com/campus/surcharge-engine/engine"
	"github.com/campus/surcharge-engine/holiday"
	"github.com/campus/surcharge-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.Error(err))
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	surchargeCfg, err := cfg.SurchargeConfig()
	if err != nil {
		logger.Fatal("invalid surcharge configuration", zap.Error(err))
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// National table plus institution-level overrides from the store.
	national := holiday.NewColombia(cfg.Holidays.MinYear, cfg.Holidays.MaxYear)
	calendar := holiday.NewComposite(national, store)

	eng := engine.New(surchargeCfg, calendar, logger)
	handler := api.NewHandler(store, eng, national, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
