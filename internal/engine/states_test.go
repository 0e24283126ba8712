package engine

import (
	"testing"

	"loandash/internal/core"
)

func stateRow(t *testing.T, rows []StateRow, state string) StateRow {
	t.Helper()
	for _, r := range rows {
		if r.State == state {
			return r
		}
	}
	t.Fatalf("no row for state %s", state)
	return StateRow{}
}

func TestStateSummary(t *testing.T) {
	e := testEngine()
	rows, err := e.StateSummary("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected CA and TX, got %d rows", len(rows))
	}

	ca := stateRow(t, rows, "CA")
	if ca.TotalAmount != 150 || ca.LoanCount != 2 {
		t.Fatalf("CA totals wrong: %+v", ca)
	}
	if ca.AvgIncome != 55000 {
		t.Fatalf("CA avg income = %d, want 55000", ca.AvgIncome)
	}
	if ca.BadLoanCount != 1 || ca.BadLoanAmount != 50 {
		t.Fatalf("CA bad loans wrong: %+v", ca)
	}
	if ca.BadLoanPct != 33.33 {
		t.Fatalf("CA bad pct = %v, want 33.33", ca.BadLoanPct)
	}

	tx := stateRow(t, rows, "TX")
	if tx.TotalAmount != 275 || tx.LoanCount != 2 {
		t.Fatalf("TX totals wrong: %+v", tx)
	}
	// One TX loan has a null income; the mean covers only the valid one.
	if tx.AvgIncome != 40000 {
		t.Fatalf("TX avg income = %d, want 40000", tx.AvgIncome)
	}
	// "bad debt" matches the substring rule.
	if tx.BadLoanCount != 1 || tx.BadLoanAmount != 75 {
		t.Fatalf("TX bad loans wrong: %+v", tx)
	}
	if tx.BadLoanPct != 27.27 {
		t.Fatalf("TX bad pct = %v, want 27.27", tx.BadLoanPct)
	}
}

func TestStateSummaryPctBounds(t *testing.T) {
	e := testEngine()
	rows, err := e.StateSummary("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.BadLoanPct < 0 || r.BadLoanPct > 100 {
			t.Fatalf("bad pct out of bounds for %s: %v", r.State, r.BadLoanPct)
		}
		if r.BadLoanAmount == 0 && r.BadLoanPct != 0 {
			t.Fatalf("pct must be 0 when bad amount is 0, got %v for %s", r.BadLoanPct, r.State)
		}
	}
}

func TestStateSummaryNoStatusColumn(t *testing.T) {
	ds := core.NewDataset(testLoans(),
		core.ColID, core.ColIssueDate, core.ColLoanAmount, core.ColState, core.ColAnnualIncome)
	rows, err := New(ds).StateSummary("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.BadLoanCount != 0 || r.BadLoanAmount != 0 || r.BadLoanPct != 0 {
			t.Fatalf("expected zero bad-loan figures without a status column: %+v", r)
		}
	}
}

func TestStateSummaryZeroTotalAmount(t *testing.T) {
	loans := []core.Loan{
		{ID: "1", State: "NV", LoanAmount: 0, Status: "bad"},
	}
	ds := core.NewDataset(loans, core.ColID, core.ColLoanAmount, core.ColState, core.ColLoanStatus)
	rows, err := New(ds).StateSummary("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nv := stateRow(t, rows, "NV")
	if nv.BadLoanPct != 0 {
		t.Fatalf("pct must be 0 when total amount is 0, got %v", nv.BadLoanPct)
	}
}

func TestStateSummaryEmpty(t *testing.T) {
	e := testEngine()
	rows, err := e.StateSummary("2030-01-01", "2030-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}

	noState := core.NewDataset(testLoans(), core.ColID, core.ColLoanAmount)
	rows, err = New(noState).StateSummary("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result without a state column, got %d rows", len(rows))
	}
}
