package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/database"
	"github.com/dsdaea/aerovault-backend/internal/logger"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/dsdaea/aerovault-backend/internal/service"
)

func main() {
	var (
		path    string
		eventID int
	)
	flag.StringVar(&path, "file", "", "Path to the XLSX workbook")
	flag.IntVar(&eventID, "event", 0, "Event ID to bind imported records to (0 = none)")
	flag.Parse()

	if path == "" {
		fmt.Println("Usage: import-records -file records.xlsx [-event <id>]")
		os.Exit(1)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Needed so stale lookup cache entries get dropped for imported rolls.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	recordRepo := repository.NewRecordRepository(pool)
	lookupService := service.NewLookupService(service.NewPostgresRecordSource(recordRepo), rdb, cfg, log)
	recordService := service.NewRecordService(recordRepo, lookupService, log)

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open workbook")
	}
	defer f.Close()

	var eventFilter *int
	if eventID > 0 {
		eventFilter = &eventID
	}

	report, err := recordService.ImportXLSX(ctx, f, eventFilter)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Imported %d records (%d skipped)\n", report.Imported, report.Skipped)
	for _, e := range report.Errors {
		fmt.Println("  " + e)
	}
}
