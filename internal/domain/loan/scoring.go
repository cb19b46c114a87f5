package loan

import "time"

const (
	baseScore = 100
	maxScore  = 100
	minScore  = 0

	onTimeLoanBonus    = 5
	manyLoansPenalty   = 10
	manyLoansThreshold = 5
	currentYearPenalty = 2
)

// CreditScore derives a 0-100 score from a customer's full loan history.
// The adjustments are applied in a fixed order:
//
//  1. start from 100
//  2. +5 for every loan fully repaid on schedule (emis paid on time >= tenure)
//  3. -10 once if the customer holds more than 5 loans of any status
//  4. -2 for every loan started in today's calendar year
//  5. if the summed principal of all loans exceeds the approved limit, the
//     score is forced to exactly 0, overriding every prior adjustment
//
// The volume override in step 5 uses the raw principal total, never the
// adjusted score. today is passed explicitly so scoring stays deterministic.
func CreditScore(approvedLimit Money, history []Loan, today time.Time) int {
	score := baseScore

	for _, l := range history {
		if l.EMIsPaidOnTime >= l.Tenure {
			score += onTimeLoanBonus
		}
	}

	if len(history) > manyLoansThreshold {
		score -= manyLoansPenalty
	}

	currentYear := today.Year()
	for _, l := range history {
		if l.StartDate.Year() == currentYear {
			score -= currentYearPenalty
		}
	}

	var totalLoanAmount Money
	for _, l := range history {
		totalLoanAmount += l.LoanAmount
	}
	if totalLoanAmount > approvedLimit {
		return minScore
	}

	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}
