package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"loandash/internal/config"
	"loandash/internal/core"
	"loandash/internal/ingest"
	applog "loandash/internal/log"
	"loandash/internal/storage"
)

// portfolio-import loads a CSV portfolio export into the SQLite store, from
// which the server's sqlite backend reads at startup.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentIngest,
	})
	applog.SetDefault(logger)

	cfg := config.Load()

	csvPath := flag.String("csv", cfg.CSVPath, "path to the CSV portfolio export")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	flag.Parse()

	start := time.Now()

	ds, err := ingest.ReadPortfolio(*csvPath)
	if err != nil {
		logger.Error("Portfolio read failed", "error", err, "path", *csvPath)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	loans := make([]core.Loan, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		loans = append(loans, ds.At(i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := repo.ReplaceLoans(ctx, loans); err != nil {
		logger.Error("Portfolio import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Portfolio imported",
		"loans", len(loans),
		"csv", *csvPath,
		"db", *dbPath,
		"duration_ms", time.Since(start).Milliseconds())
}
