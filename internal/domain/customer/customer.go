package customer

import (
	"fmt"
	"math"
	"time"
)

// approvedLimitUnit is the granularity the credit limit is rounded to
// (a lakh in the source data set).
const approvedLimitUnit = 100_000.0

type Customer struct {
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlyIncome float64   `json:"monthlyIncome"`
	ApprovedLimit float64   `json:"approvedLimit"`
	CurrentDebt   float64   `json:"currentDebt"`
	CreateDate    time.Time `json:"createDate"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApprovedLimitFor computes the credit ceiling granted at registration:
// 36 times the monthly income, rounded to the nearest multiple of 100,000.
// The limit is fixed once at creation and never recomputed afterwards.
func ApprovedLimitFor(monthlyIncome float64) float64 {
	return math.Round(36*monthlyIncome/approvedLimitUnit) * approvedLimitUnit
}

func NewCustomer(firstName, lastName string, age int, phoneNumber string, monthlyIncome float64) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlyIncome: monthlyIncome,
		ApprovedLimit: ApprovedLimitFor(monthlyIncome),
		CurrentDebt:   0,
		CreateDate:    now,
		UpdatedAt:     now,
	}
}

func (c *Customer) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}
