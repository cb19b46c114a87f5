package dto

import (
	"time"

	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"
)

// LoanApplicationRequest is shared by check-eligibility and create-loan; both
// take the same proposed loan terms.
type LoanApplicationRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *LoanApplicationRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperrors.NewValidationError("customer_id", "customer_id must be positive")
	}
	if r.LoanAmount <= 0 {
		return apperrors.NewValidationError("loan_amount", "loan amount must be positive")
	}
	if r.InterestRate < 0 {
		return apperrors.NewValidationError("interest_rate", "interest rate cannot be negative")
	}
	if r.Tenure <= 0 {
		return apperrors.NewValidationError("tenure", "tenure must be positive")
	}
	return nil
}

type EligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

func NewEligibilityResponse(res *loan.EligibilityResult) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            res.CustomerID,
		Approval:              res.Approved,
		InterestRate:          res.InterestRate,
		CorrectedInterestRate: res.CorrectedInterestRate,
		Tenure:                res.Tenure,
		MonthlyInstallment:    res.MonthlyInstallment,
	}
}

type CreateLoanResponse struct {
	LoanID             *int64  `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

func NewCreateLoanResponse(res *loan.CreateLoanResult) CreateLoanResponse {
	resp := CreateLoanResponse{
		CustomerID:         res.CustomerID,
		LoanApproved:       res.Approved,
		Message:            res.Message,
		MonthlyInstallment: res.MonthlyInstallment,
	}
	if res.Loan != nil {
		id := res.Loan.ID
		resp.LoanID = &id
	}
	return resp
}

type CustomerSummary struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             int64           `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         float64         `json:"loan_amount"`
	InterestRate       float64         `json:"interest_rate"`
	MonthlyInstallment float64         `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
}

func NewLoanDetailResponse(detail *loan.LoanDetail) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID: detail.Loan.ID,
		Customer: CustomerSummary{
			ID:          detail.Customer.CustomerID,
			FirstName:   detail.Customer.FirstName,
			LastName:    detail.Customer.LastName,
			PhoneNumber: detail.Customer.PhoneNumber,
			Age:         detail.Customer.Age,
		},
		LoanAmount:         detail.Loan.LoanAmount,
		InterestRate:       detail.Loan.InterestRate,
		MonthlyInstallment: detail.Loan.MonthlyRepayment,
		Tenure:             detail.Loan.Tenure,
	}
}

type LoanSummaryResponse struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func NewLoanSummaryResponse(l *loan.Loan) LoanSummaryResponse {
	return LoanSummaryResponse{
		LoanID:             l.ID,
		LoanAmount:         l.LoanAmount,
		InterestRate:       l.InterestRate,
		MonthlyInstallment: l.MonthlyRepayment,
		RepaymentsLeft:     l.RepaymentsLeft(),
	}
}

type LoanRecordResponse struct {
	LoanID           int64   `json:"loan_id"`
	CustomerID       int64   `json:"customer_id"`
	LoanAmount       float64 `json:"loan_amount"`
	Tenure           int     `json:"tenure"`
	InterestRate     float64 `json:"interest_rate"`
	MonthlyRepayment float64 `json:"monthly_repayment"`
	EMIsPaidOnTime   int     `json:"emis_paid_on_time"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
}

func NewLoanRecordResponse(l *loan.Loan) LoanRecordResponse {
	dateFormat := time.RFC3339[:10]
	return LoanRecordResponse{
		LoanID:           l.ID,
		CustomerID:       l.CustomerID,
		LoanAmount:       l.LoanAmount,
		Tenure:           l.Tenure,
		InterestRate:     l.InterestRate,
		MonthlyRepayment: l.MonthlyRepayment,
		EMIsPaidOnTime:   l.EMIsPaidOnTime,
		StartDate:        l.StartDate.Format(dateFormat),
		EndDate:          l.EndDate.Format(dateFormat),
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
