package dto

import (
	"strings"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"
)

type RegisterCustomerRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	PhoneNumber   string  `json:"phone_number"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return apperrors.NewValidationError("first_name", "first name cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return apperrors.NewValidationError("last_name", "last name cannot be empty")
	}
	if r.Age < 0 {
		return apperrors.NewValidationError("age", "age cannot be negative")
	}
	if r.MonthlyIncome <= 0 {
		return apperrors.NewValidationError("monthly_income", "monthly income must be positive")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return apperrors.NewValidationError("phone_number", "phone number cannot be empty")
	}
	return nil
}

type RegisterCustomerResponse struct {
	CustomerID    int64   `json:"customer_id"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   string  `json:"phone_number"`
}

func NewRegisterCustomerResponse(cust *customer.Customer) RegisterCustomerResponse {
	if cust == nil {
		return RegisterCustomerResponse{}
	}

	return RegisterCustomerResponse{
		CustomerID:    cust.CustomerID,
		Name:          cust.FullName(),
		Age:           cust.Age,
		MonthlyIncome: cust.MonthlyIncome,
		ApprovedLimit: cust.ApprovedLimit,
		PhoneNumber:   cust.PhoneNumber,
	}
}
