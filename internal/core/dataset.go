package core

// Dataset is an immutable in-memory portfolio table. It is built once at load
// time and shared read-only afterwards; every derivation returns a fresh
// Dataset, so concurrent queries need no locking.
type Dataset struct {
	loans []Loan
	cols  map[Column]bool
}

// NewDataset builds a dataset from loans and the set of columns the source
// actually provided. The loan slice is copied; callers keep ownership of
// their argument.
func NewDataset(loans []Loan, cols ...Column) *Dataset {
	d := &Dataset{
		loans: make([]Loan, len(loans)),
		cols:  make(map[Column]bool, len(cols)),
	}
	copy(d.loans, loans)
	for _, c := range cols {
		d.cols[c] = true
	}
	return d
}

// Len returns the number of loan records.
func (d *Dataset) Len() int { return len(d.loans) }

// At returns a copy of the loan at index i.
func (d *Dataset) At(i int) Loan { return d.loans[i] }

// Has reports whether the source provided the given column.
func (d *Dataset) Has(c Column) bool { return d.cols[c] }

// Columns returns the present columns in canonical order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, 0, len(d.cols))
	for _, c := range AllColumns {
		if d.cols[c] {
			out = append(out, c)
		}
	}
	return out
}

// Select returns an independent dataset holding the loans for which keep
// returns true. The receiver is never modified.
func (d *Dataset) Select(keep func(Loan) bool) *Dataset {
	sub := &Dataset{cols: d.copyCols()}
	for _, l := range d.loans {
		if keep(l) {
			sub.loans = append(sub.loans, l)
		}
	}
	return sub
}

// WithDerivedGrades returns a dataset where the grade column is filled from
// the first character of the subgrade when the source had no grade column.
// When grade is already present (or subgrade is not), the receiver is
// returned unchanged, which makes the step idempotent.
func (d *Dataset) WithDerivedGrades() *Dataset {
	if d.cols[ColGrade] || !d.cols[ColSubGrade] {
		return d
	}
	out := &Dataset{
		loans: make([]Loan, len(d.loans)),
		cols:  d.copyCols(),
	}
	out.cols[ColGrade] = true
	copy(out.loans, d.loans)
	for i := range out.loans {
		if sg := out.loans[i].SubGrade; sg != "" {
			out.loans[i].Grade = sg[:1]
		}
	}
	return out
}

func (d *Dataset) copyCols() map[Column]bool {
	cols := make(map[Column]bool, len(d.cols))
	for c, ok := range d.cols {
		cols[c] = ok
	}
	return cols
}
