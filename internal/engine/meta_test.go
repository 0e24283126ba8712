package engine

import (
	"testing"

	"loandash/internal/core"
)

func TestDateRange(t *testing.T) {
	e := testEngine()
	min, max, ok := e.DateRange()
	if !ok {
		t.Fatal("expected a date range")
	}
	if !min.Equal(date(2023, 1, 15)) || !max.Equal(date(2023, 3, 1)) {
		t.Fatalf("range = [%v, %v], want [2023-01-15, 2023-03-01]", min, max)
	}
}

func TestDateRangeMissingColumn(t *testing.T) {
	ds := core.NewDataset(testLoans(), core.ColID, core.ColLoanAmount)
	if _, _, ok := New(ds).DateRange(); ok {
		t.Fatal("expected no range without a date column")
	}
}

func TestGradesSortedDistinct(t *testing.T) {
	loans := []core.Loan{
		{ID: "1", Grade: "C"},
		{ID: "2", Grade: "A"},
		{ID: "3", Grade: "B"},
		{ID: "4", Grade: "A"},
	}
	ds := core.NewDataset(loans, core.ColID, core.ColGrade)
	got := New(ds).Grades()
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestGradesDerivedFromSubGrades(t *testing.T) {
	ds := core.NewDataset(testLoans(), core.ColID, core.ColSubGrade)
	got := New(ds).Grades()
	want := []string{"A", "B"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestValues(t *testing.T) {
	e := testEngine()
	got := e.Values("purpose")
	want := []string{"car", "house"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if vs := e.Values("no_such_column"); len(vs) != 0 {
		t.Fatalf("expected no values for unknown column, got %v", vs)
	}
}
