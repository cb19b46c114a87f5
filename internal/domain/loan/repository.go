package loan

import "context"

type Repository interface {
	CreateLoan(ctx context.Context, loan *Loan) (createdLoan *Loan, err error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomer(ctx context.Context, customerID int64) ([]Loan, error)

	ListByStartYear(ctx context.Context, year int) ([]Loan, error)

	ListCustomerIDsWithLoans(ctx context.Context) ([]int64, error)
}
