package batch

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, newLoan)
	var l *loan.Loan
	if args.Get(0) != nil {
		l = args.Get(0).(*loan.Loan)
	}
	return l, args.Error(1)
}

func (m *MockLoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	var l *loan.Loan
	if args.Get(0) != nil {
		l = args.Get(0).(*loan.Loan)
	}
	return l, args.Error(1)
}

func (m *MockLoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	args := m.Called(ctx, customerID)
	var loans []loan.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]loan.Loan)
	}
	return loans, args.Error(1)
}

func (m *MockLoanRepository) ListByStartYear(ctx context.Context, year int) ([]loan.Loan, error) {
	args := m.Called(ctx, year)
	var loans []loan.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]loan.Loan)
	}
	return loans, args.Error(1)
}

func (m *MockLoanRepository) ListCustomerIDsWithLoans(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	return m.Called(ctx, cust).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	var c *customer.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*customer.Customer)
	}
	return c, args.Error(1)
}

func (m *MockCustomerRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*customer.Customer, error) {
	args := m.Called(ctx, phoneNumber)
	var c *customer.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*customer.Customer)
	}
	return c, args.Error(1)
}

func (m *MockCustomerRepository) UpdateCurrentDebt(ctx context.Context, customerID int64, currentDebt float64) error {
	return m.Called(ctx, customerID, currentDebt).Error(0)
}

func TestOutstandingDebt(t *testing.T) {
	loans := []loan.Loan{
		{Tenure: 24, EMIsPaidOnTime: 10, MonthlyRepayment: 1000}, // 14 left
		{Tenure: 12, EMIsPaidOnTime: 12, MonthlyRepayment: 500},  // fully repaid
		{Tenure: 6, EMIsPaidOnTime: 0, MonthlyRepayment: 200},    // 6 left
	}

	assert.Equal(t, 15200.0, outstandingDebt(loans))
	assert.Equal(t, 0.0, outstandingDebt(nil))
}

func TestDebtSyncJobUpdatesEveryCustomer(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	customerRepo := new(MockCustomerRepository)
	job := NewDebtSyncJob(loanRepo, customerRepo, logger)
	ctx := context.Background()

	loanRepo.On("ListCustomerIDsWithLoans", ctx).Return([]int64{1, 2}, nil)
	loanRepo.On("ListByCustomer", ctx, int64(1)).Return([]loan.Loan{
		{Tenure: 24, EMIsPaidOnTime: 10, MonthlyRepayment: 1000},
	}, nil)
	loanRepo.On("ListByCustomer", ctx, int64(2)).Return([]loan.Loan{
		{Tenure: 12, EMIsPaidOnTime: 12, MonthlyRepayment: 500},
	}, nil)
	customerRepo.On("UpdateCurrentDebt", ctx, int64(1), 14000.0).Return(nil)
	customerRepo.On("UpdateCurrentDebt", ctx, int64(2), 0.0).Return(nil)

	err := job.Run(ctx)

	assert.NoError(t, err)
	loanRepo.AssertExpectations(t)
	customerRepo.AssertExpectations(t)
}

func TestDebtSyncJobNoCustomers(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	customerRepo := new(MockCustomerRepository)
	job := NewDebtSyncJob(loanRepo, customerRepo, logger)
	ctx := context.Background()

	loanRepo.On("ListCustomerIDsWithLoans", ctx).Return([]int64{}, nil)

	err := job.Run(ctx)

	assert.NoError(t, err)
	customerRepo.AssertNotCalled(t, "UpdateCurrentDebt", mock.Anything, mock.Anything, mock.Anything)
}

func TestDebtSyncJobAbortsWhenListingFails(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	customerRepo := new(MockCustomerRepository)
	job := NewDebtSyncJob(loanRepo, customerRepo, logger)
	ctx := context.Background()

	loanRepo.On("ListCustomerIDsWithLoans", ctx).Return(nil, assert.AnError)

	err := job.Run(ctx)

	assert.Error(t, err)
}

func TestDebtSyncJobReportsPerCustomerErrors(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	customerRepo := new(MockCustomerRepository)
	job := NewDebtSyncJob(loanRepo, customerRepo, logger)
	ctx := context.Background()

	loanRepo.On("ListCustomerIDsWithLoans", ctx).Return([]int64{1, 2}, nil)
	loanRepo.On("ListByCustomer", ctx, int64(1)).Return(nil, assert.AnError)
	loanRepo.On("ListByCustomer", ctx, int64(2)).Return([]loan.Loan{
		{Tenure: 6, EMIsPaidOnTime: 0, MonthlyRepayment: 200},
	}, nil)
	customerRepo.On("UpdateCurrentDebt", ctx, int64(2), 1200.0).Return(nil)

	err := job.Run(ctx)

	assert.Error(t, err)
	customerRepo.AssertExpectations(t)
}

func TestDebtSyncJobToleratesMissingCustomerRecord(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	customerRepo := new(MockCustomerRepository)
	job := NewDebtSyncJob(loanRepo, customerRepo, logger)
	ctx := context.Background()

	loanRepo.On("ListCustomerIDsWithLoans", ctx).Return([]int64{1}, nil)
	loanRepo.On("ListByCustomer", ctx, int64(1)).Return([]loan.Loan{
		{Tenure: 6, EMIsPaidOnTime: 0, MonthlyRepayment: 200},
	}, nil)
	customerRepo.On("UpdateCurrentDebt", ctx, int64(1), 1200.0).Return(customer.ErrNotFound)

	err := job.Run(ctx)

	assert.NoError(t, err)
}
