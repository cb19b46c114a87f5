package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	"credit-approval/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CheckEligibility(ctx context.Context, customerID int64, loanAmount, interestRate loan.Money, tenure int) (*loan.EligibilityResult, error) {
	args := m.Called(ctx, customerID, loanAmount, interestRate, tenure)
	var r *loan.EligibilityResult
	if args.Get(0) != nil {
		r = args.Get(0).(*loan.EligibilityResult)
	}
	return r, args.Error(1)
}

func (m *MockLoanService) CreateLoan(ctx context.Context, customerID int64, loanAmount, interestRate loan.Money, tenure int) (*loan.CreateLoanResult, error) {
	args := m.Called(ctx, customerID, loanAmount, interestRate, tenure)
	var r *loan.CreateLoanResult
	if args.Get(0) != nil {
		r = args.Get(0).(*loan.CreateLoanResult)
	}
	return r, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*loan.LoanDetail, error) {
	args := m.Called(ctx, loanID)
	var r *loan.LoanDetail
	if args.Get(0) != nil {
		r = args.Get(0).(*loan.LoanDetail)
	}
	return r, args.Error(1)
}

func (m *MockLoanService) ListCustomerLoans(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	args := m.Called(ctx, customerID)
	var loans []loan.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]loan.Loan)
	}
	return loans, args.Error(1)
}

func (m *MockLoanService) ListLoansByYear(ctx context.Context, year int) ([]loan.Loan, error) {
	args := m.Called(ctx, year)
	var loans []loan.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]loan.Loan)
	}
	return loans, args.Error(1)
}

func newLoanTestRouter(svc loan.LoanService) *chi.Mux {
	h := NewLoanHandler(svc, logger)
	router := chi.NewRouter()
	router.Post("/check-eligibility", h.CheckEligibility)
	router.Post("/create-loan", h.CreateLoan)
	router.Get("/view-loan/{loanID}", h.ViewLoan)
	router.Get("/view-loans/{customerID}", h.ViewCustomerLoans)
	router.Get("/loans", h.ListLoansByYear)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckEligibilityHandlerApproved(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("CheckEligibility", mock.Anything, int64(1), 500000.0, 10.0, 24).Return(&loan.EligibilityResult{
		CustomerID:            1,
		Approved:              true,
		InterestRate:          10,
		CorrectedInterestRate: 10,
		Tenure:                24,
		MonthlyInstallment:    23072.46,
	}, nil)

	rec := postJSON(t, router, "/check-eligibility", dto.LoanApplicationRequest{
		CustomerID: 1, LoanAmount: 500000, InterestRate: 10, Tenure: 24,
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.EligibilityResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Approval)
	assert.Equal(t, 10.0, resp.InterestRate)
	assert.Equal(t, 10.0, resp.CorrectedInterestRate)
	svc.AssertExpectations(t)
}

func TestCheckEligibilityHandlerInvalidBody(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/check-eligibility", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CheckEligibility", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckEligibilityHandlerValidationFailure(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	rec := postJSON(t, router, "/check-eligibility", dto.LoanApplicationRequest{
		CustomerID: 1, LoanAmount: 500000, InterestRate: 10, Tenure: 0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "tenure", resp.Error.Field)
}

func TestCheckEligibilityHandlerCustomerNotFound(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("CheckEligibility", mock.Anything, int64(99), 500000.0, 10.0, 24).Return(nil, apperrors.ErrNotFound)

	rec := postJSON(t, router, "/check-eligibility", dto.LoanApplicationRequest{
		CustomerID: 99, LoanAmount: 500000, InterestRate: 10, Tenure: 24,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateLoanHandlerApproved(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("CreateLoan", mock.Anything, int64(1), 500000.0, 10.0, 24).Return(&loan.CreateLoanResult{
		Loan:               &loan.Loan{ID: 42},
		CustomerID:         1,
		Approved:           true,
		Message:            loan.MsgApproved,
		MonthlyInstallment: 23072.46,
	}, nil)

	rec := postJSON(t, router, "/create-loan", dto.LoanApplicationRequest{
		CustomerID: 1, LoanAmount: 500000, InterestRate: 10, Tenure: 24,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CreateLoanResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.LoanApproved)
	if assert.NotNil(t, resp.LoanID) {
		assert.Equal(t, int64(42), *resp.LoanID)
	}
	assert.Equal(t, loan.MsgApproved, resp.Message)
}

func TestCreateLoanHandlerRejectedHasNullLoanID(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("CreateLoan", mock.Anything, int64(1), 500000.0, 10.0, 24).Return(&loan.CreateLoanResult{
		CustomerID:         1,
		Approved:           false,
		Message:            loan.MsgRejectedCreditScore,
		MonthlyInstallment: 23072.46,
	}, nil)

	rec := postJSON(t, router, "/create-loan", dto.LoanApplicationRequest{
		CustomerID: 1, LoanAmount: 500000, InterestRate: 10, Tenure: 24,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]json.RawMessage
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "null", string(raw["loan_id"]))

	var resp dto.CreateLoanResponse
	assert.NoError(t, json.Unmarshal(mustMarshal(t, raw), &resp))
	assert.False(t, resp.LoanApproved)
	assert.Equal(t, loan.MsgRejectedCreditScore, resp.Message)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return b
}

func TestViewLoanHandlerSuccess(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("GetLoan", mock.Anything, int64(42)).Return(&loan.LoanDetail{
		Loan: &loan.Loan{
			ID:               42,
			CustomerID:       1,
			LoanAmount:       500000,
			InterestRate:     10,
			MonthlyRepayment: 23072.46,
			Tenure:           24,
			StartDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Customer: &customer.Customer{CustomerID: 1, FirstName: "Aarav", LastName: "Sharma", PhoneNumber: "9876543210", Age: 30},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/view-loan/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.LoanDetailResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.LoanID)
	assert.Equal(t, "Aarav", resp.Customer.FirstName)
	assert.Equal(t, 24, resp.Tenure)
}

func TestViewLoanHandlerInvalidID(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/view-loan/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetLoan", mock.Anything, mock.Anything)
}

func TestViewLoanHandlerNotFound(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("GetLoan", mock.Anything, int64(7)).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/view-loan/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewCustomerLoansHandlerSuccess(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("ListCustomerLoans", mock.Anything, int64(1)).Return([]loan.Loan{
		{ID: 42, LoanAmount: 500000, InterestRate: 10, MonthlyRepayment: 23072.46, Tenure: 24, EMIsPaidOnTime: 10},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/view-loans/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.LoanSummaryResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, 14, resp[0].RepaymentsLeft)
}

func TestViewCustomerLoansHandlerNoLoans(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("ListCustomerLoans", mock.Anything, int64(5)).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/view-loans/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLoansByYearHandlerSuccess(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	svc.On("ListLoansByYear", mock.Anything, 2025).Return([]loan.Loan{
		{ID: 1, CustomerID: 1, StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2027, 2, 19, 0, 0, 0, 0, time.UTC)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/loans?year=2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.LoanRecordResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "2025-03-01", resp[0].StartDate)
}

func TestListLoansByYearHandlerMissingYear(t *testing.T) {
	svc := new(MockLoanService)
	router := newLoanTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListLoansByYear", mock.Anything, mock.Anything)
}
