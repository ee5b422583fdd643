package main

import (
	"context"
	"flag"
	"log" // Standard log for startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"easymove_notifier/internal/config"
	"easymove_notifier/internal/notification"
	"easymove_notifier/internal/platform/database"
	"easymove_notifier/internal/platform/logger"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate-history", flag.ExitOnError)
	dryRun := migrateCmd.Bool("dry-run", false, "Only check the database connection")

	if len(os.Args) > 1 && os.Args[1] == "migrate-history" {
		_ = migrateCmd.Parse(os.Args[2:])
		if err := migrateHistory(*dryRun); err != nil {
			log.Fatalf("FATAL: History migration failed: %v", err)
		}
		return
	}

	startServer()
}

// migrateHistory creates or updates the notifications table of a SQL history
// backend without starting the server.
func migrateHistory(dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	if cfg.HistoryBackend == config.HistoryBackendFirestore {
		appLogger.Info("Firestore history backend needs no migration")
		return nil
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		return err
	}
	defer database.CloseGORMDB(db)

	if dryRun {
		appLogger.Info("History database reachable", zap.String("backend", cfg.HistoryBackend))
		return nil
	}
	if err := notification.NewGORMRepository(db).AutoMigrate(); err != nil {
		return err
	}
	appLogger.Info("History migration completed", zap.String("backend", cfg.HistoryBackend))
	return nil
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
