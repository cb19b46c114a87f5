package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Money = float64

// The loan term uses a fixed 30-day month approximation, not calendar
// months.
const daysPerTenureMonth = 30

type Loan struct {
	ID               int64
	CustomerID       int64
	LoanAmount       Money
	Tenure           int // months
	InterestRate     Money
	MonthlyRepayment Money
	EMIsPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CalculateEMI computes the equated monthly installment for a loan using the
// standard amortization formula, rounded to 2 decimal places. A zero annual
// rate degenerates to simple division. Tenure positivity is the caller's
// responsibility.
func CalculateEMI(principal Money, annualRate Money, tenureMonths int) Money {
	if annualRate == 0 {
		return roundTo(principal/Money(tenureMonths), 2)
	}

	monthlyRate := annualRate / 12 / 100
	compound := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := principal * monthlyRate * compound / (compound - 1)
	return roundTo(emi, 2)
}

// NewLoan materializes an approved loan. EndDate is derived once here from
// StartDate and tenure and never re-derived later.
func NewLoan(customerID int64, amount Money, interestRate Money, tenure int, monthlyRepayment Money, startDate time.Time) *Loan {
	return &Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     interestRate,
		MonthlyRepayment: monthlyRepayment,
		EMIsPaidOnTime:   0,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 0, daysPerTenureMonth*tenure),
	}
}

// RepaymentsLeft is the number of installments still due.
func (l *Loan) RepaymentsLeft() int {
	return l.Tenure - l.EMIsPaidOnTime
}

func roundTo(n Money, decimals int32) Money {
	return decimal.NewFromFloat(n).Round(decimals).InexactFloat64()
}
