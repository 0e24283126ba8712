// Package backend selects and builds the portfolio data source. All backends
// produce the same immutable in-memory dataset; the query engine never knows
// where the loans came from.
package backend

import (
	"context"

	"loandash/internal/config"
	"loandash/internal/core"
)

// Type identifies a portfolio data source.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{CSVBackend, SQLiteBackend, SheetsBackend}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result holds a loaded dataset and the cleanup for its source.
type Result struct {
	Dataset *core.Dataset
	Cleanup CleanupFunc
}

// Config holds everything needed to build a backend.
type Config struct {
	Type Type

	// CSV specific
	CSVPath string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errNilAppConfig
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, invalidTypeError(appConfig.DataBackend)
	}

	return Config{
		Type:                backendType,
		CSVPath:             appConfig.CSVPath,
		SQLiteDBPath:        appConfig.SQLiteDBPath,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,
	}, nil
}

// Factory creates a dataset from the configured source.
type Factory interface {
	Load(ctx context.Context, config Config) (*Result, error)
}
