package engine

import (
	"testing"
	"time"

	"loandash/internal/core"
)

func fptr(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testLoans is the shared four-loan fixture used across the query tests.
func testLoans() []core.Loan {
	return []core.Loan{
		{ID: "1", IssueDate: date(2023, 1, 15), Grade: "A", SubGrade: "A1", LoanAmount: 100,
			AnnualIncome: fptr(50000), IntRate: fptr(10.0), State: "CA", Purpose: "car", Status: "Good Loan"},
		{ID: "2", IssueDate: date(2023, 1, 20), Grade: "A", SubGrade: "A2", LoanAmount: 50,
			AnnualIncome: fptr(60000), IntRate: fptr(11.5), State: "CA", Purpose: "house", Status: "Bad Loan"},
		{ID: "3", IssueDate: date(2023, 2, 10), Grade: "B", SubGrade: "B1", LoanAmount: 200,
			State: "TX", Status: "good"},
		{ID: "4", IssueDate: date(2023, 3, 1), Grade: "A", SubGrade: "A1", LoanAmount: 75,
			AnnualIncome: fptr(40000), IntRate: fptr(9.0), State: "TX", Purpose: "car", Status: "bad debt"},
	}
}

func testEngine() *Engine {
	return New(core.NewDataset(testLoans(), core.AllColumns...))
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2023-01-15", date(2023, 1, 15), false},
		{" 2023-01-15 ", date(2023, 1, 15), false},
		{"", time.Time{}, false},
		{"2023-02-10 00:00:00", date(2023, 2, 10), false},
		{"not-a-date", time.Time{}, true},
		{"15/01/2023", time.Time{}, true},
	}
	for i, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("case %d expected error for %q", i, tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d unexpected error: %v", i, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("case %d got %v want %v", i, got, tc.want)
		}
	}
}
