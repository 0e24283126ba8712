package engine

import (
	"sort"

	"loandash/internal/core"
)

// Node is one entry of the flattened grade→subgrade rollup. Grade nodes have
// an empty Parent; subgrade nodes reference their grade. Node ids are
// globally unique: a subgrade id is "<grade>-<subgrade>" so it can never
// collide with a grade label.
type Node struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Parent    string  `json:"parent"`
	Value     float64 `json:"value"`
	LoanCount int     `json:"loan_count"`
}

// Hierarchy filters by date and rolls loan amounts up from subgrade to grade.
// Both levels are computed from the same filtered subset, so each grade
// node's value and count equal the sums over its children exactly. Missing
// subgrade or amount columns, or an empty subset, yield an empty list.
func (e *Engine) Hierarchy(start, end string) ([]Node, error) {
	sub, err := e.Filter(start, end, nil)
	if err != nil {
		return nil, err
	}
	if sub.Len() == 0 || !sub.Has(core.ColSubGrade) || !sub.Has(core.ColLoanAmount) {
		return nil, nil
	}

	type key struct{ grade, subgrade string }
	type acc struct {
		value float64
		count int
	}
	byGrade := make(map[string]*acc)
	bySub := make(map[key]*acc)
	for i := 0; i < sub.Len(); i++ {
		l := sub.At(i)
		if l.Grade == "" || l.SubGrade == "" {
			continue
		}
		g := byGrade[l.Grade]
		if g == nil {
			g = &acc{}
			byGrade[l.Grade] = g
		}
		g.value += l.LoanAmount
		g.count++

		k := key{l.Grade, l.SubGrade}
		s := bySub[k]
		if s == nil {
			s = &acc{}
			bySub[k] = s
		}
		s.value += l.LoanAmount
		s.count++
	}
	if len(byGrade) == 0 {
		return nil, nil
	}

	grades := make([]string, 0, len(byGrade))
	for g := range byGrade {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	nodes := make([]Node, 0, len(byGrade)+len(bySub))
	for _, g := range grades {
		a := byGrade[g]
		nodes = append(nodes, Node{ID: g, Label: g, Value: a.value, LoanCount: a.count})
	}

	subKeys := make([]key, 0, len(bySub))
	for k := range bySub {
		subKeys = append(subKeys, k)
	}
	sort.Slice(subKeys, func(i, j int) bool {
		if subKeys[i].grade != subKeys[j].grade {
			return subKeys[i].grade < subKeys[j].grade
		}
		return subKeys[i].subgrade < subKeys[j].subgrade
	})
	for _, k := range subKeys {
		a := bySub[k]
		nodes = append(nodes, Node{
			ID:        k.grade + "-" + k.subgrade,
			Label:     k.subgrade,
			Parent:    k.grade,
			Value:     a.value,
			LoanCount: a.count,
		})
	}
	return nodes, nil
}
