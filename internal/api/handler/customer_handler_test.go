package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, phoneNumber string, monthlyIncome float64) (*customer.Customer, error) {
	args := m.Called(ctx, firstName, lastName, age, phoneNumber, monthlyIncome)
	var c *customer.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*customer.Customer)
	}
	return c, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	var c *customer.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*customer.Customer)
	}
	return c, args.Error(1)
}

func newCustomerTestRouter(svc customer.CustomerService) *chi.Mux {
	h := NewCustomerHandler(svc, logger)
	router := chi.NewRouter()
	router.Post("/register", h.RegisterCustomer)
	router.Get("/customers/{customerID}", h.GetCustomer)
	return router
}

func TestRegisterCustomerHandlerSuccess(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	svc.On("RegisterCustomer", mock.Anything, "Aarav", "Sharma", 30, "9876543210", 85000.0).Return(&customer.Customer{
		CustomerID:    301,
		FirstName:     "Aarav",
		LastName:      "Sharma",
		Age:           30,
		PhoneNumber:   "9876543210",
		MonthlyIncome: 85000,
		ApprovedLimit: 3_100_000,
	}, nil)

	rec := postJSON(t, router, "/register", dto.RegisterCustomerRequest{
		FirstName: "Aarav", LastName: "Sharma", Age: 30, MonthlyIncome: 85000, PhoneNumber: "9876543210",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.RegisterCustomerResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(301), resp.CustomerID)
	assert.Equal(t, "Aarav Sharma", resp.Name)
	assert.Equal(t, 3_100_000.0, resp.ApprovedLimit)
	svc.AssertExpectations(t)
}

func TestRegisterCustomerHandlerInvalidBody(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterCustomerHandlerValidationFailure(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	rec := postJSON(t, router, "/register", dto.RegisterCustomerRequest{
		FirstName: "", LastName: "Sharma", Age: 30, MonthlyIncome: 85000, PhoneNumber: "9876543210",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "first_name", resp.Error.Field)
}

func TestRegisterCustomerHandlerDuplicatePhone(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	svc.On("RegisterCustomer", mock.Anything, "Aarav", "Sharma", 30, "9876543210", 85000.0).
		Return(nil, apperrors.NewValidationError("phone_number", "phone number already registered"))

	rec := postJSON(t, router, "/register", dto.RegisterCustomerRequest{
		FirstName: "Aarav", LastName: "Sharma", Age: 30, MonthlyIncome: 85000, PhoneNumber: "9876543210",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "phone_number", resp.Error.Field)
}

func TestGetCustomerHandlerSuccess(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	svc.On("GetCustomer", mock.Anything, int64(1)).Return(&customer.Customer{
		CustomerID: 1, FirstName: "Aarav", LastName: "Sharma",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCustomerHandlerNotFound(t *testing.T) {
	svc := new(MockCustomerService)
	router := newCustomerTestRouter(svc)

	svc.On("GetCustomer", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/customers/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
