package engine

import (
	"sort"
	"strings"

	"loandash/internal/core"
)

// UnknownBucket labels records whose category value is null.
const UnknownBucket = "Unknown"

// CategoryRow is one ranked category value.
type CategoryRow struct {
	Value       string  `json:"value"`
	TotalAmount float64 `json:"total_amount"`
	LoanCount   int     `json:"loan_count"`
	AvgIncome   float64 `json:"avg_income"`
	AvgIntRate  float64 `json:"avg_int_rate"`
}

// CategoryRanking filters by date, groups by the normalized value of the
// chosen categorical column (nulls bucketed as "Unknown", whitespace
// trimmed), and keeps the topN groups by total amount. The surviving rows are
// returned ascending by total amount, which is the query's defined output
// order; topN <= 0 keeps every group. An unknown or absent column yields an
// empty table.
func (e *Engine) CategoryRanking(variable, start, end string, topN int) ([]CategoryRow, error) {
	col := core.Column(variable)
	sub, err := e.Filter(start, end, nil)
	if err != nil {
		return nil, err
	}
	if sub.Len() == 0 || !sub.Has(col) {
		return nil, nil
	}

	type acc struct {
		total     float64
		count     int
		incomeSum float64
		incomeN   int
		rateSum   float64
		rateN     int
	}
	groups := make(map[string]*acc)
	for i := 0; i < sub.Len(); i++ {
		l := sub.At(i)
		v, ok := l.Categorical(col)
		if !ok {
			v = UnknownBucket
		}
		v = strings.TrimSpace(v)
		if v == "" {
			v = UnknownBucket
		}
		a := groups[v]
		if a == nil {
			a = &acc{}
			groups[v] = a
		}
		a.total += l.LoanAmount
		a.count++
		if l.AnnualIncome != nil {
			a.incomeSum += *l.AnnualIncome
			a.incomeN++
		}
		if l.IntRate != nil {
			a.rateSum += *l.IntRate
			a.rateN++
		}
	}

	rows := make([]CategoryRow, 0, len(groups))
	for v, a := range groups {
		row := CategoryRow{Value: v, TotalAmount: a.total, LoanCount: a.count}
		if a.incomeN > 0 {
			row.AvgIncome = round0(a.incomeSum / float64(a.incomeN))
		}
		if a.rateN > 0 {
			row.AvgIntRate = round2(a.rateSum / float64(a.rateN))
		}
		rows = append(rows, row)
	}

	// Rank largest-first, truncate, then flip to the ascending presentation
	// order. Ties break on the label so the result is deterministic.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalAmount != rows[j].TotalAmount {
			return rows[i].TotalAmount > rows[j].TotalAmount
		}
		return rows[i].Value < rows[j].Value
	})
	if topN > 0 && topN < len(rows) {
		rows = rows[:topN]
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalAmount != rows[j].TotalAmount {
			return rows[i].TotalAmount < rows[j].TotalAmount
		}
		return rows[i].Value > rows[j].Value
	})
	return rows, nil
}
