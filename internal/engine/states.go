package engine

import (
	"sort"

	"loandash/internal/core"
)

// StateRow summarizes the portfolio for one region code.
type StateRow struct {
	State         string  `json:"state"`
	TotalAmount   float64 `json:"total_loan_amount"`
	LoanCount     int     `json:"loan_count"`
	AvgIncome     int64   `json:"avg_income"`
	BadLoanCount  int     `json:"bad_loan_count"`
	BadLoanAmount float64 `json:"bad_loan_amount"`
	BadLoanPct    float64 `json:"bad_loan_pct"`
}

// StateSummary filters by date and aggregates per state: total amount, loan
// count, mean income rounded to the nearest integer, and bad-loan figures.
// States with no bad loans report zeros, never nulls, and the bad-loan
// percentage is defined as 0 when the state's total amount is 0. A missing
// state column or an empty subset yields an empty table.
func (e *Engine) StateSummary(start, end string) ([]StateRow, error) {
	sub, err := e.Filter(start, end, nil)
	if err != nil {
		return nil, err
	}
	if sub.Len() == 0 || !sub.Has(core.ColState) {
		return nil, nil
	}

	type acc struct {
		total       float64
		count       int
		incomeSum   float64
		incomeCount int
		badCount    int
		badAmount   float64
	}
	byState := make(map[string]*acc)
	hasStatus := sub.Has(core.ColLoanStatus)
	for i := 0; i < sub.Len(); i++ {
		l := sub.At(i)
		if l.State == "" {
			continue
		}
		a := byState[l.State]
		if a == nil {
			a = &acc{}
			byState[l.State] = a
		}
		a.total += l.LoanAmount
		a.count++
		if l.AnnualIncome != nil {
			a.incomeSum += *l.AnnualIncome
			a.incomeCount++
		}
		if hasStatus && l.IsBad() {
			a.badCount++
			a.badAmount += l.LoanAmount
		}
	}
	if len(byState) == 0 {
		return nil, nil
	}

	rows := make([]StateRow, 0, len(byState))
	for state, a := range byState {
		row := StateRow{
			State:         state,
			TotalAmount:   a.total,
			LoanCount:     a.count,
			BadLoanCount:  a.badCount,
			BadLoanAmount: a.badAmount,
		}
		if a.incomeCount > 0 {
			row.AvgIncome = int64(round0(a.incomeSum / float64(a.incomeCount)))
		}
		if a.total > 0 {
			row.BadLoanPct = round2(a.badAmount / a.total * 100)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].State < rows[j].State })
	return rows, nil
}
