package core

import (
	"strings"
	"time"
)

// Column names the fields a portfolio source may carry. Sources with partial
// schemas simply omit columns; aggregations degrade instead of failing.
type Column string

const (
	ColID            Column = "id"
	ColIssueDate     Column = "issue_date"
	ColGrade         Column = "grade"
	ColSubGrade      Column = "sub_grade"
	ColLoanAmount    Column = "loan_amount"
	ColAnnualIncome  Column = "annual_income"
	ColIntRate       Column = "int_rate"
	ColState         Column = "address_state"
	ColHomeOwnership Column = "home_ownership"
	ColPurpose       Column = "purpose"
	ColEmpLength     Column = "emp_length"
	ColLoanStatus    Column = "loan_status"
)

// Columns recognized by the schema, in canonical order.
var AllColumns = []Column{
	ColID, ColIssueDate, ColGrade, ColSubGrade, ColLoanAmount,
	ColAnnualIncome, ColIntRate, ColState, ColHomeOwnership,
	ColPurpose, ColEmpLength, ColLoanStatus,
}

// CategoricalColumns are the columns the ranking and distinct-values queries
// may group by.
var CategoricalColumns = []Column{
	ColGrade, ColSubGrade, ColState, ColHomeOwnership,
	ColPurpose, ColEmpLength, ColLoanStatus,
}

// Loan is a single portfolio record. Missing values are represented as the
// zero time for IssueDate, nil pointers for the numeric extras, and empty
// strings for categorical fields.
type Loan struct {
	ID            string
	IssueDate     time.Time
	Grade         string
	SubGrade      string
	LoanAmount    float64
	AnnualIncome  *float64
	IntRate       *float64
	State         string
	HomeOwnership string
	Purpose       string
	EmpLength     string
	Status        string
}

// Categorical returns the loan's value for a string-valued column and whether
// the value is present (non-null).
func (l Loan) Categorical(c Column) (string, bool) {
	var v string
	switch c {
	case ColID:
		v = l.ID
	case ColGrade:
		v = l.Grade
	case ColSubGrade:
		v = l.SubGrade
	case ColState:
		v = l.State
	case ColHomeOwnership:
		v = l.HomeOwnership
	case ColPurpose:
		v = l.Purpose
	case ColEmpLength:
		v = l.EmpLength
	case ColLoanStatus:
		v = l.Status
	default:
		return "", false
	}
	return v, v != ""
}

// IsBad reports whether the loan's status marks it as a bad loan. The rule is
// a literal case-insensitive substring match on the trimmed status field.
func (l Loan) IsBad() bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(l.Status)), "bad")
}
