package engine

import (
	"sort"
	"time"

	"loandash/internal/core"
)

// MonthlyMatrix is loan amount summed per (calendar month, grade). Rows are
// month starts in ascending order; columns are the grades present in the
// filtered subset, sorted. Cells for combinations with no loans hold 0, which
// is distinct from the empty matrix returned when nothing matched at all.
type MonthlyMatrix struct {
	Months  []time.Time `json:"months"`
	Grades  []string    `json:"grades"`
	Amounts [][]float64 `json:"amounts"`
}

// IsEmpty reports whether the query matched no rows.
func (m MonthlyMatrix) IsEmpty() bool { return len(m.Months) == 0 }

// Amount returns the cell for a month/grade pair, or false when the pair is
// outside the matrix.
func (m MonthlyMatrix) Amount(month time.Time, grade string) (float64, bool) {
	row, col := -1, -1
	for i, mo := range m.Months {
		if mo.Equal(monthStart(month)) {
			row = i
			break
		}
	}
	for j, g := range m.Grades {
		if g == grade {
			col = j
			break
		}
	}
	if row < 0 || col < 0 {
		return 0, false
	}
	return m.Amounts[row][col], true
}

// MonthlyByGrade filters by date range and grades, truncates issue dates to
// month granularity and pivots summed loan amounts into a month-by-grade
// matrix with zero-filled gaps.
func (e *Engine) MonthlyByGrade(start, end string, grades []string) (MonthlyMatrix, error) {
	sub, err := e.Filter(start, end, grades)
	if err != nil {
		return MonthlyMatrix{}, err
	}
	if sub.Len() == 0 || !sub.Has(core.ColIssueDate) || !sub.Has(core.ColGrade) {
		return MonthlyMatrix{}, nil
	}

	type cell struct {
		month time.Time
		grade string
	}
	sums := make(map[cell]float64)
	monthSet := make(map[time.Time]bool)
	gradeSet := make(map[string]bool)
	for i := 0; i < sub.Len(); i++ {
		l := sub.At(i)
		if l.IssueDate.IsZero() || l.Grade == "" {
			continue
		}
		m := monthStart(l.IssueDate)
		sums[cell{m, l.Grade}] += l.LoanAmount
		monthSet[m] = true
		gradeSet[l.Grade] = true
	}
	if len(sums) == 0 {
		return MonthlyMatrix{}, nil
	}

	out := MonthlyMatrix{}
	for m := range monthSet {
		out.Months = append(out.Months, m)
	}
	sort.Slice(out.Months, func(i, j int) bool { return out.Months[i].Before(out.Months[j]) })
	for g := range gradeSet {
		out.Grades = append(out.Grades, g)
	}
	sort.Strings(out.Grades)

	out.Amounts = make([][]float64, len(out.Months))
	for i, m := range out.Months {
		row := make([]float64, len(out.Grades))
		for j, g := range out.Grades {
			row[j] = sums[cell{m, g}]
		}
		out.Amounts[i] = row
	}
	return out, nil
}
