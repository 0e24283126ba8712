// Package storage persists the loan portfolio and the query-audit trail in
// SQLite. The repository is an ingestion backend: the portfolio is imported
// once (see cmd/portfolio-import) and read back in full at server startup.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"loandash/internal/core"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceLoans swaps the stored portfolio for the given records in one
// transaction.
func (r *Repository) ReplaceLoans(ctx context.Context, loans []core.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM loans`); err != nil {
		return fmt.Errorf("clear loans: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO loans (
			id, issue_date, grade, sub_grade, loan_amount, annual_income,
			int_rate, address_state, home_ownership, purpose, emp_length, loan_status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range loans {
		_, err := stmt.ExecContext(ctx,
			l.ID,
			nullDate(l.IssueDate),
			nullString(l.Grade),
			nullString(l.SubGrade),
			l.LoanAmount,
			nullFloat(l.AnnualIncome),
			nullFloat(l.IntRate),
			nullString(l.State),
			nullString(l.HomeOwnership),
			nullString(l.Purpose),
			nullString(l.EmpLength),
			nullString(l.Status),
		)
		if err != nil {
			return fmt.Errorf("insert loan %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Portfolio replaced in SQLite", "loans", len(loans))
	return nil
}

// LoadDataset reads the full portfolio into an immutable dataset. The loans
// table carries every schema column, so all of them are marked present.
func (r *Repository) LoadDataset(ctx context.Context) (*core.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, issue_date, grade, sub_grade, loan_amount, annual_income,
		       int_rate, address_state, home_ownership, purpose, emp_length, loan_status
		FROM loans`)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []core.Loan
	for rows.Next() {
		var (
			l          core.Loan
			issueDate  sql.NullString
			grade      sql.NullString
			subGrade   sql.NullString
			income     sql.NullFloat64
			intRate    sql.NullFloat64
			state      sql.NullString
			ownership  sql.NullString
			purpose    sql.NullString
			empLength  sql.NullString
			loanStatus sql.NullString
		)
		err := rows.Scan(&l.ID, &issueDate, &grade, &subGrade, &l.LoanAmount,
			&income, &intRate, &state, &ownership, &purpose, &empLength, &loanStatus)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		if issueDate.Valid {
			t, err := time.Parse(dateFormat, issueDate.String)
			if err != nil {
				return nil, fmt.Errorf("loan %s: bad issue_date %q: %w", l.ID, issueDate.String, err)
			}
			l.IssueDate = t
		}
		l.Grade = grade.String
		l.SubGrade = subGrade.String
		if income.Valid {
			v := income.Float64
			l.AnnualIncome = &v
		}
		if intRate.Valid {
			v := intRate.Float64
			l.IntRate = &v
		}
		l.State = state.String
		l.HomeOwnership = ownership.String
		l.Purpose = purpose.String
		l.EmpLength = empLength.String
		l.Status = loanStatus.String
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}

	return core.NewDataset(loans, core.AllColumns...), nil
}

// RecordQueryAudit appends one audit row for a served query.
func (r *Repository) RecordQueryAudit(ctx context.Context, view, params string, rowCount int, duration time.Duration) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_audit (view, params, row_count, duration_ms)
		VALUES (?, ?, ?, ?)`,
		view, params, rowCount, duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record query audit: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateFormat), Valid: true}
}
