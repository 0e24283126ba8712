package engine

import (
	"sort"
	"strings"
	"time"

	"loandash/internal/core"
)

// DateRange returns the earliest and latest issue dates in the dataset. ok is
// false when the source has no date column or no dated rows.
func (e *Engine) DateRange() (min, max time.Time, ok bool) {
	if !e.ds.Has(core.ColIssueDate) {
		return time.Time{}, time.Time{}, false
	}
	for i := 0; i < e.ds.Len(); i++ {
		d := e.ds.At(i).IssueDate
		if d.IsZero() {
			continue
		}
		if !ok || d.Before(min) {
			min = d
		}
		if !ok || d.After(max) {
			max = d
		}
		ok = true
	}
	return min, max, ok
}

// Grades returns the sorted distinct grade labels in the dataset.
func (e *Engine) Grades() []string {
	return e.Values(string(core.ColGrade))
}

// Values returns the sorted distinct non-null values of a categorical column,
// trimmed. Unknown or absent columns yield an empty list.
func (e *Engine) Values(variable string) []string {
	col := core.Column(variable)
	if !e.ds.Has(col) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < e.ds.Len(); i++ {
		v, ok := e.ds.At(i).Categorical(col)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
