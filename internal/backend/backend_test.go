package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"loandash/internal/config"
	"loandash/internal/core"
)

func TestTypeIsValid(t *testing.T) {
	cases := []struct {
		t    Type
		want bool
	}{
		{CSVBackend, true},
		{SQLiteBackend, true},
		{SheetsBackend, true},
		{Type("postgres"), false},
		{Type(""), false},
	}
	for i, tc := range cases {
		if got := tc.t.IsValid(); got != tc.want {
			t.Errorf("case %d: IsValid(%q) = %v, want %v", i, tc.t, got, tc.want)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:         "csv",
		CSVPath:             "/data/loans.csv",
		SQLiteDBPath:        "/data/loandash.db",
		GoogleSpreadsheetID: "abc",
		GoogleSheetName:     "Portfolio",
	}
	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != CSVBackend {
		t.Errorf("type: got %s, want csv", cfg.Type)
	}
	if cfg.CSVPath != "/data/loans.csv" {
		t.Errorf("csv path: got %s", cfg.CSVPath)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil app config")
	}

	appCfg.DataBackend = "postgres"
	if _, err := FromAppConfig(appCfg); err == nil {
		t.Error("expected error for unknown backend type")
	}
}

func TestLoadCSVBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	data := "id,issue_date,grade,loan_amount\n1,2023-01-15,A,100\n2,2023-02-10,B,200\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	factory := NewFactory(nil)
	result, err := factory.Load(context.Background(), Config{Type: CSVBackend, CSVPath: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer result.Cleanup()

	if result.Dataset.Len() != 2 {
		t.Fatalf("expected 2 loans, got %d", result.Dataset.Len())
	}
	if !result.Dataset.Has(core.ColGrade) {
		t.Error("expected grade column to be present")
	}
	if result.Dataset.Has(core.ColState) {
		t.Error("state column should be absent")
	}
}

func TestLoadSQLiteBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "loandash.db")

	factory := NewFactory(nil)
	result, err := factory.Load(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer result.Cleanup()

	if result.Dataset.Len() != 0 {
		t.Fatalf("expected empty dataset from fresh database, got %d", result.Dataset.Len())
	}
}

func TestLoadSheetsRequiresSpreadsheetID(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.Load(context.Background(), Config{Type: SheetsBackend}); err == nil {
		t.Fatal("expected error without a spreadsheet id")
	}
}

func TestLoadInvalidType(t *testing.T) {
	factory := NewFactory(nil)
	if _, err := factory.Load(context.Background(), Config{Type: Type("postgres")}); err == nil {
		t.Fatal("expected error for invalid backend type")
	}
}
