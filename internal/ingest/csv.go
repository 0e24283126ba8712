// Package ingest loads a loan portfolio from CSV into the engine's in-memory
// dataset. The loader is header-driven: only the columns present in the file
// are marked on the dataset, so downstream queries degrade gracefully on
// partial exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"loandash/internal/core"
)

// headerAliases maps normalized source headers to schema columns. Portfolio
// exports name the status column inconsistently ("Good Or Bad Loan" in the
// original spreadsheet).
var headerAliases = map[string]core.Column{
	"id":                core.ColID,
	"issue_date":        core.ColIssueDate,
	"issue_d":           core.ColIssueDate,
	"grade":             core.ColGrade,
	"sub_grade":         core.ColSubGrade,
	"loan_amount":       core.ColLoanAmount,
	"loan_amnt":         core.ColLoanAmount,
	"annual_income":     core.ColAnnualIncome,
	"annual_inc":        core.ColAnnualIncome,
	"int_rate":          core.ColIntRate,
	"address_state":     core.ColState,
	"addr_state":        core.ColState,
	"home_ownership":    core.ColHomeOwnership,
	"purpose":           core.ColPurpose,
	"emp_length":        core.ColEmpLength,
	"loan_status":       core.ColLoanStatus,
	"loan_status_flag":  core.ColLoanStatus,
	"good_or_bad_loan":  core.ColLoanStatus,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ReadPortfolio loads a CSV portfolio file.
func ReadPortfolio(path string) (*core.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open portfolio: %w", err)
	}
	defer f.Close()
	ds, err := ParsePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ds, nil
}

// ParsePortfolio reads CSV loan records from r. The first row must be a
// header; unknown headers are ignored. Empty cells are nulls.
func ParsePortfolio(r io.Reader) (*core.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		records = append(records, record)
	}
	return ParseRows(header, records)
}

// ParseRows builds a dataset from a header row and data rows. It is shared by
// the CSV loader and the Sheets backend, which deliver rows in the same shape.
func ParseRows(header []string, records [][]string) (*core.Dataset, error) {
	colAt := make(map[int]core.Column, len(header))
	var cols []core.Column
	for i, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok {
			colAt[i] = c
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no recognized columns in header %v", header)
	}

	var loans []core.Loan
	for n, record := range records {
		loan, err := parseLoan(record, colAt)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		loans = append(loans, loan)
	}
	return core.NewDataset(loans, cols...), nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

func parseLoan(record []string, colAt map[int]core.Column) (core.Loan, error) {
	var l core.Loan
	for i, cell := range record {
		col, ok := colAt[i]
		if !ok {
			continue
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		switch col {
		case core.ColID:
			l.ID = v
		case core.ColIssueDate:
			t, err := parseDate(v)
			if err != nil {
				return core.Loan{}, err
			}
			l.IssueDate = t
		case core.ColGrade:
			l.Grade = v
		case core.ColSubGrade:
			l.SubGrade = v
		case core.ColLoanAmount:
			f, err := parseFloat(col, v)
			if err != nil {
				return core.Loan{}, err
			}
			l.LoanAmount = f
		case core.ColAnnualIncome:
			f, err := parseFloat(col, v)
			if err != nil {
				return core.Loan{}, err
			}
			l.AnnualIncome = &f
		case core.ColIntRate:
			f, err := parseFloat(col, strings.TrimSuffix(v, "%"))
			if err != nil {
				return core.Loan{}, err
			}
			l.IntRate = &f
		case core.ColState:
			l.State = v
		case core.ColHomeOwnership:
			l.HomeOwnership = v
		case core.ColPurpose:
			l.Purpose = v
		case core.ColEmpLength:
			l.EmpLength = v
		case core.ColLoanStatus:
			l.Status = v
		}
	}
	return l, nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable issue_date %q", v)
}

func parseFloat(col core.Column, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable %s %q", col, v)
	}
	return f, nil
}
