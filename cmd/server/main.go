package main

import (
	"fmt"
	"log"
	"net/http"

	"tradedocs/internal/config"
	"tradedocs/internal/handler"
	"tradedocs/internal/repository/sqlite"
	"tradedocs/internal/router"
	"tradedocs/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.NewDB(&cfg.Ledger)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	defer db.Close()

	recordStore, err := store.NewFileStore(cfg.Store.Root)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	ledger := sqlite.NewRunLedgerRepo(db)

	// Initialize handlers
	healthH := handler.NewHealthHandler(db)
	recordH := handler.NewRecordHandler(recordStore)
	comparisonH := handler.NewComparisonHandler(recordStore)
	runH := handler.NewRunHandler(ledger)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, healthH, recordH, comparisonH, runH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s (store root %s)", cfg.Server.Port, cfg.Store.Root)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
