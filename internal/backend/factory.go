package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loandash/internal/ingest"
	"loandash/internal/sheets"
	"loandash/internal/storage"
)

var errNilAppConfig = errors.New("app config is nil")

func invalidTypeError(t string) error {
	return fmt.Errorf("invalid backend type: %s", t)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// Load implements Factory.Load
func (f *DefaultFactory) Load(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, invalidTypeError(config.Type.String())
	}

	switch config.Type {
	case CSVBackend:
		return f.loadCSV(config)
	case SQLiteBackend:
		return f.loadSQLite(ctx, config)
	case SheetsBackend:
		return f.loadSheets(ctx, config)
	default:
		return nil, invalidTypeError(config.Type.String())
	}
}

func (f *DefaultFactory) loadCSV(config Config) (*Result, error) {
	if config.CSVPath == "" {
		return nil, errors.New("CSV path is required for csv backend")
	}

	ds, err := ingest.ReadPortfolio(config.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("load CSV portfolio: %w", err)
	}

	f.logger.Info("Portfolio loaded from CSV", "path", config.CSVPath, "loans", ds.Len())
	return &Result{Dataset: ds, Cleanup: func() error { return nil }}, nil
}

func (f *DefaultFactory) loadSQLite(ctx context.Context, config Config) (*Result, error) {
	if config.SQLiteDBPath == "" {
		return nil, errors.New("SQLite database path is required for sqlite backend")
	}

	repo, err := storage.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("load SQLite portfolio: %w", err)
	}

	f.logger.Info("Portfolio loaded from SQLite", "path", config.SQLiteDBPath, "loans", ds.Len())
	return &Result{Dataset: ds, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) loadSheets(ctx context.Context, config Config) (*Result, error) {
	if config.GoogleSpreadsheetID == "" {
		return nil, errors.New("Google Spreadsheet ID is required for sheets backend")
	}

	client, err := sheets.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName)
	if err != nil {
		return nil, fmt.Errorf("initialize Sheets client: %w", err)
	}

	ds, err := client.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load Sheets portfolio: %w", err)
	}

	return &Result{Dataset: ds, Cleanup: func() error { return nil }}, nil
}
