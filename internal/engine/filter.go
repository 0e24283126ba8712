package engine

import (
	"time"

	"loandash/internal/core"
)

// Filter returns the subset of the dataset inside the inclusive [start, end]
// date range and, when grades is non-empty, limited to those grades. Either
// bound may be empty. A filter whose column is missing from the source is a
// no-op rather than an error, so partial schemas degrade gracefully. The
// source dataset is never modified.
func (e *Engine) Filter(start, end string, grades []string) (*core.Dataset, error) {
	startT, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	endT, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	return e.filterRange(startT, endT, grades), nil
}

// filterRange applies the parsed-date form of Filter. The date predicate is
// applied only when both bounds are set, matching the query UI which always
// submits a complete range.
func (e *Engine) filterRange(start, end time.Time, grades []string) *core.Dataset {
	sub := e.ds

	if !start.IsZero() && !end.IsZero() && sub.Has(core.ColIssueDate) {
		sub = sub.Select(func(l core.Loan) bool {
			if l.IssueDate.IsZero() {
				return false
			}
			return !l.IssueDate.Before(start) && !l.IssueDate.After(end)
		})
	}

	if len(grades) > 0 && sub.Has(core.ColGrade) {
		want := make(map[string]bool, len(grades))
		for _, g := range grades {
			want[g] = true
		}
		sub = sub.Select(func(l core.Loan) bool { return want[l.Grade] })
	}

	return sub
}
