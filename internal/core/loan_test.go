package core

import "testing"

func TestIsBad(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"Bad Loan", true},
		{"  bad loan  ", true},
		{"BAD", true},
		{"bad debt collection agency", true}, // literal substring rule
		{"Good Loan", false},
		{"", false},
	}
	for i, tc := range cases {
		if got := (Loan{Status: tc.status}).IsBad(); got != tc.want {
			t.Fatalf("case %d: IsBad(%q) = %v, want %v", i, tc.status, got, tc.want)
		}
	}
}

func TestCategorical(t *testing.T) {
	l := Loan{Grade: "A", Purpose: "car"}
	if v, ok := l.Categorical(ColGrade); !ok || v != "A" {
		t.Fatalf("grade = %q, %v", v, ok)
	}
	if _, ok := l.Categorical(ColState); ok {
		t.Fatal("empty value should read as null")
	}
	if _, ok := l.Categorical(ColLoanAmount); ok {
		t.Fatal("numeric columns are not categorical")
	}
}
