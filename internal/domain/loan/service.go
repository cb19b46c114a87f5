package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/event"
	"credit-approval/internal/infrastructure/monitoring"
	"credit-approval/internal/pkg/apperrors"
)

const (
	MsgApproved              = "Loan approved successfully"
	MsgRejectedAffordability = "Loan not approved - EMIs exceed 50% of monthly income"
	MsgRejectedCreditScore   = "Loan not approved based on credit score"
)

const (
	outcomeApproved              = "approved"
	outcomeRejectedAffordability = "rejected_affordability"
	outcomeRejectedScore         = "rejected_score"
	outcomeRateCorrected         = "rate_corrected"
)

// EligibilityResult mirrors the check-eligibility response: InterestRate is
// always the requested rate, CorrectedInterestRate the rate the decision was
// made at (identical unless the policy raised it).
type EligibilityResult struct {
	CustomerID            int64
	Approved              bool
	InterestRate          Money
	CorrectedInterestRate Money
	Tenure                int
	MonthlyInstallment    Money
}

// CreateLoanResult carries the outcome of a create-loan call. Loan is nil
// unless the decision approved.
type CreateLoanResult struct {
	Loan               *Loan
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment Money
}

// LoanDetail is a loan joined with its owning customer for the view-loan
// response.
type LoanDetail struct {
	Loan     *Loan
	Customer *customer.Customer
}

type LoanService interface {
	CheckEligibility(ctx context.Context, customerID int64, loanAmount Money, interestRate Money, tenure int) (*EligibilityResult, error)

	CreateLoan(ctx context.Context, customerID int64, loanAmount Money, interestRate Money, tenure int) (*CreateLoanResult, error)

	GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]Loan, error)

	ListLoansByYear(ctx context.Context, year int) ([]Loan, error)
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
	now             func() time.Time
}

func NewLoanService(r Repository, cs customer.CustomerService, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if pub == nil {
		pub = event.NewNopPublisher()
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		pub:             pub,
		logger:          logger.With("component", "loanService"),
		now:             time.Now,
	}
}

// evaluate loads the customer and loan history and runs the decision engine.
func (s *loanServiceImpl) evaluate(ctx context.Context, customerID int64, loanAmount Money, interestRate Money, tenure int) (*customer.Customer, Decision, error) {
	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", "customerID", customerID)
			return nil, Decision{}, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Failed to get customer details", slog.Any("error", err))
		return nil, Decision{}, fmt.Errorf("failed to verify customer: %w", err)
	}

	history, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan history", "customerID", customerID, slog.Any("error", err))
		return nil, Decision{}, fmt.Errorf("%w: failed to load loan history for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}

	decision := Decide(cust, history, loanAmount, interestRate, tenure, s.now())
	return cust, decision, nil
}

func recordDecisionOutcome(decision Decision, requestedRate Money) {
	switch {
	case decision.Approved:
		monitoring.RecordDecision(outcomeApproved)
	case decision.AffordabilityExceeded:
		monitoring.RecordDecision(outcomeRejectedAffordability)
	case decision.InterestRate != requestedRate:
		monitoring.RecordDecision(outcomeRateCorrected)
	default:
		monitoring.RecordDecision(outcomeRejectedScore)
	}
}

func (s *loanServiceImpl) CheckEligibility(ctx context.Context, customerID int64, loanAmount Money, interestRate Money, tenure int) (*EligibilityResult, error) {
	s.logger.InfoContext(ctx, "Checking loan eligibility", "customerID", customerID, "loanAmount", loanAmount, "tenure", tenure)

	_, decision, err := s.evaluate(ctx, customerID, loanAmount, interestRate, tenure)
	if err != nil {
		return nil, err
	}
	recordDecisionOutcome(decision, interestRate)

	return &EligibilityResult{
		CustomerID:            customerID,
		Approved:              decision.Approved,
		InterestRate:          interestRate,
		CorrectedInterestRate: decision.InterestRate,
		Tenure:                tenure,
		MonthlyInstallment:    decision.MonthlyInstallment,
	}, nil
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID int64, loanAmount Money, interestRate Money, tenure int) (*CreateLoanResult, error) {
	s.logger.InfoContext(ctx, "Creating new loan", "customerID", customerID, "loanAmount", loanAmount, "tenure", tenure)

	_, decision, err := s.evaluate(ctx, customerID, loanAmount, interestRate, tenure)
	if err != nil {
		return nil, err
	}
	recordDecisionOutcome(decision, interestRate)

	if !decision.Approved {
		message := MsgRejectedCreditScore
		if decision.AffordabilityExceeded {
			message = MsgRejectedAffordability
		}
		s.logger.InfoContext(ctx, "Loan not approved", "customerID", customerID, "message", message)
		return &CreateLoanResult{
			CustomerID:         customerID,
			Approved:           false,
			Message:            message,
			MonthlyInstallment: decision.MonthlyInstallment,
		}, nil
	}

	newLoan := NewLoan(customerID, loanAmount, decision.InterestRate, tenure, decision.MonthlyInstallment, s.now())

	createdLoan, err := s.repo.CreateLoan(ctx, newLoan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanIssued()

	createdEvent := event.LoanCreatedEvent{
		Timestamp: s.now(),
		Payload: event.LoanEventPayload{
			LoanID:             createdLoan.ID,
			CustomerID:         createdLoan.CustomerID,
			LoanAmount:         createdLoan.LoanAmount,
			Tenure:             createdLoan.Tenure,
			InterestRate:       createdLoan.InterestRate,
			MonthlyRepayment:   createdLoan.MonthlyRepayment,
			StartDate:          createdLoan.StartDate,
			EndDate:            createdLoan.EndDate,
			CreditScoreAtIssue: decision.CreditScore,
		},
	}
	if pubErr := s.pub.PublishLoanCreated(ctx, createdEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Loan created, but FAILED to publish loan created event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Loan created successfully", "loanID", createdLoan.ID, "customerID", customerID)
	return &CreateLoanResult{
		Loan:               createdLoan,
		CustomerID:         customerID,
		Approved:           true,
		Message:            MsgApproved,
		MonthlyInstallment: createdLoan.MonthlyRepayment,
	}, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error) {
	s.logger.InfoContext(ctx, "Getting loan details", "loanID", loanID)

	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	cust, err := s.customerService.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get owning customer for loan", "loanID", loanID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer %d for loan %d: %v", apperrors.ErrInternalServer, l.CustomerID, loanID, err)
	}

	return &LoanDetail{Loan: l, Customer: cust}, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]Loan, error) {
	s.logger.InfoContext(ctx, "Listing loans for customer", "customerID", customerID)

	loans, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}
	if len(loans) == 0 {
		s.logger.WarnContext(ctx, "No loans found for customer", "customerID", customerID)
		return nil, fmt.Errorf("%w: no loans found for customer %d", apperrors.ErrNotFound, customerID)
	}

	return loans, nil
}

func (s *loanServiceImpl) ListLoansByYear(ctx context.Context, year int) ([]Loan, error) {
	s.logger.InfoContext(ctx, "Listing loans by start year", "year", year)

	loans, err := s.repo.ListByStartYear(ctx, year)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans by year", "year", year, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for year %d: %v", apperrors.ErrInternalServer, year, err)
	}

	return loans, nil
}
