package ingest

import (
	"strings"
	"testing"
	"time"

	"loandash/internal/core"
)

func TestParsePortfolio(t *testing.T) {
	input := strings.Join([]string{
		"id,issue_date,grade,sub_grade,loan_amount,annual_income,int_rate,address_state,purpose,Good Or Bad Loan",
		"1,2023-01-15,A,A1,100,50000,10.5,CA,car,Good Loan",
		"2,2023-02-10,B,B1,200,,,TX,,Bad Loan",
	}, "\n")

	ds, err := ParsePortfolio(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("got %d loans, want 2", ds.Len())
	}
	for _, c := range []core.Column{core.ColID, core.ColIssueDate, core.ColGrade, core.ColLoanStatus} {
		if !ds.Has(c) {
			t.Fatalf("column %s should be present", c)
		}
	}
	if ds.Has(core.ColEmpLength) {
		t.Fatal("emp_length is not in the file and must not be marked present")
	}

	first := ds.At(0)
	if !first.IssueDate.Equal(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("issue date = %v", first.IssueDate)
	}
	if first.AnnualIncome == nil || *first.AnnualIncome != 50000 {
		t.Fatalf("annual income = %v", first.AnnualIncome)
	}
	if first.IntRate == nil || *first.IntRate != 10.5 {
		t.Fatalf("int rate = %v", first.IntRate)
	}

	second := ds.At(1)
	if second.AnnualIncome != nil || second.IntRate != nil {
		t.Fatal("empty cells must stay null")
	}
	if second.Purpose != "" {
		t.Fatalf("purpose should be null, got %q", second.Purpose)
	}
	if second.Status != "Bad Loan" {
		t.Fatalf("status alias not applied, got %q", second.Status)
	}
}

func TestParsePortfolioPartialSchema(t *testing.T) {
	input := "sub_grade,loan_amount\nA1,100\nB2,200\n"
	ds, err := ParsePortfolio(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Has(core.ColGrade) || ds.Has(core.ColIssueDate) {
		t.Fatal("absent columns must not be marked present")
	}
	if !ds.Has(core.ColSubGrade) {
		t.Fatal("sub_grade should be present")
	}
}

func TestParsePortfolioBadDate(t *testing.T) {
	input := "id,issue_date\n1,someday\n"
	if _, err := ParsePortfolio(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestParsePortfolioNoKnownColumns(t *testing.T) {
	input := "foo,bar\n1,2\n"
	if _, err := ParsePortfolio(strings.NewReader(input)); err == nil {
		t.Fatal("expected error when no schema column is recognized")
	}
}
