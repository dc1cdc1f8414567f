/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the slot reservation server. Handles
  configuration, store selection, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and TECHCAFE_* environment config
  2. Open the slot store backend (snapshot, sqlite, or bolt)
  3. Open the CSV audit ledger and start the notification bus
  4. Wire the engine and HTTP handler
  5. Start the server with graceful shutdown

STORE BACKENDS (TECHCAFE_STORE):
  snapshot  JSON full-snapshot file, atomically replaced per mutation (default)
  sqlite    SQLite database
  bolt      BoltDB single-file database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the bus clock and close the store

SEE ALSO:
  - config/config.go: the environment contract
  - api/server.go: router configuration
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/techcafe/reservation-engine/api"
	adminauth "github.com/techcafe/reservation-engine/auth"
	"github.com/techcafe/reservation-engine/booking"
	"github.com/techcafe/reservation-engine/bus"
	"github.com/techcafe/reservation-engine/config"
	"github.com/techcafe/reservation-engine/ledger"
	"github.com/techcafe/reservation-engine/store/boltdb"
	"github.com/techcafe/reservation-engine/store/snapshot"
	"github.com/techcafe/reservation-engine/store/sqlite"
)

func main() {
	// A .env file is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	auditLedger, err := ledger.New(cfg.LedgerDir())
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}

	names, err := config.LoadNames(cfg.NamesFile)
	if err != nil {
		log.Fatalf("names: %v", err)
	}
	log.Printf("Loaded %d display names", names.Count())

	notifyBus := bus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go notifyBus.Run(ctx)

	engine := booking.NewEngine(store, auditLedger, notifyBus)
	admin := adminauth.New(cfg.AdminPassword, cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)
	handler := api.NewHandler(engine, notifyBus, names, admin)
	router := api.NewRouter(handler)

	// No WriteTimeout: /events holds a streaming response open for the
	// lifetime of the subscriber.
	server := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (store=%s)", cfg.HTTPAddr, cfg.Store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func openStore(cfg config.App) (booking.SlotStore, error) {
	switch cfg.Store {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath())
	case "bolt":
		return boltdb.Open(cfg.BoltPath())
	default:
		return snapshot.Open(cfg.SnapshotPath())
	}
}
