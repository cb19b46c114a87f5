package loan

import (
	"time"

	"credit-approval/internal/domain/customer"
)

// affordabilityRatio caps total monthly repayments at half the customer's
// monthly income.
const affordabilityRatio = 0.5

// Decision is the outcome of an eligibility evaluation. When the requested
// rate fails a tier's floor, InterestRate carries the corrected rate and
// MonthlyInstallment the recomputed installment while Approved stays false:
// correction and approval are mutually exclusive outcomes per tier.
type Decision struct {
	Approved           bool
	InterestRate       Money
	MonthlyInstallment Money
	CreditScore        int

	// AffordabilityExceeded marks a rejection by the income gate, in which
	// case no credit score was computed.
	AffordabilityExceeded bool
}

// scoreBand maps an exclusive lower score bound to the minimum interest rate
// the policy accepts for that band. Bands are evaluated in order, highest
// first. A floorRate of 0 means any requested rate is acceptable.
type scoreBand struct {
	minScore  int
	floorRate Money
}

var scoreBands = []scoreBand{
	{minScore: 50, floorRate: 0},
	{minScore: 30, floorRate: 12},
	{minScore: 10, floorRate: 16},
}

// Decide runs the tiered approval policy for a proposed loan.
//
// The affordability gate runs first and independently of scoring: when the
// customer's existing EMIs plus the provisional installment exceed half their
// monthly income the loan is rejected with the installment still computed at
// the requested rate. Only when the gate passes is the credit score computed
// and the band table consulted.
func Decide(cust *customer.Customer, history []Loan, loanAmount Money, requestedRate Money, tenure int, today time.Time) Decision {
	monthlyInstallment := CalculateEMI(loanAmount, requestedRate, tenure)

	var currentEMIs Money
	for _, l := range history {
		currentEMIs += l.MonthlyRepayment
	}

	if currentEMIs+monthlyInstallment > affordabilityRatio*cust.MonthlyIncome {
		return Decision{
			Approved:              false,
			InterestRate:          requestedRate,
			MonthlyInstallment:    monthlyInstallment,
			AffordabilityExceeded: true,
		}
	}

	score := CreditScore(cust.ApprovedLimit, history, today)

	decision := Decision{
		Approved:           false,
		InterestRate:       requestedRate,
		MonthlyInstallment: monthlyInstallment,
		CreditScore:        score,
	}

	for _, band := range scoreBands {
		if score <= band.minScore {
			continue
		}
		if requestedRate >= band.floorRate {
			decision.Approved = true
		} else {
			decision.InterestRate = band.floorRate
			decision.MonthlyInstallment = CalculateEMI(loanAmount, band.floorRate, tenure)
		}
		return decision
	}

	// score <= 10: rejected, no correction offered
	return decision
}
